// Command fluxdemo drives a tiny store through a handful of mutations,
// logging a fingerprint of the committed state after each change and
// printing the final state, to exercise the facade/snapshot/store stack end
// to end. Grounded on the flag/log wiring of cmd/barn/main.go.
package main

import (
	"flag"
	"fmt"
	"log"

	"flux/container"
	"flux/facade"
	"flux/fluxconfig"
	"flux/snapshot"
	"flux/store"
)

func main() {
	configPath := flag.String("config", "", "path to a flux config YAML file")
	flag.Parse()

	fileOpts, err := fluxconfig.LoadOptions(*configPath)
	if err != nil {
		log.Fatalf("fluxdemo: %v", err)
	}

	root := container.NewRecord()
	root.Set("todos", container.NewSequence([]any{}))
	root.Set("nextID", 1)

	s := store.New(root, fileOpts.FacadeOptions())
	unsubscribe := s.Subscribe(func(state any) {
		fp := snapshot.Fingerprint(state)
		log.Printf("state changed, fingerprint=%x", fp[:4])
	})
	defer unsubscribe()

	add := func(title string) {
		_, err := s.Apply(func(f *facade.Facade, next func(store.Mutator) (any, error)) (any, error) {
			idVal, err := f.Get("nextID")
			if err != nil {
				return nil, err
			}
			id := idVal.(int)

			todosVal, err := f.Get("todos")
			if err != nil {
				return nil, err
			}
			todos := todosVal.(*facade.Facade)

			entry := container.NewRecord()
			entry.Set("id", id)
			entry.Set("title", title)
			entry.Set("done", false)
			if err := todos.Push(entry); err != nil {
				return nil, err
			}
			return nil, f.Set("nextID", id+1)
		})
		if err != nil {
			log.Fatalf("fluxdemo: add: %v", err)
		}
	}

	complete := func(id int) {
		_, err := s.Apply(func(f *facade.Facade, next func(store.Mutator) (any, error)) (any, error) {
			todosVal, err := f.Get("todos")
			if err != nil {
				return nil, err
			}
			todos := todosVal.(*facade.Facade)
			n := todos.Length()
			for i := 0; i < n; i++ {
				itemVal, err := todos.Get(i)
				if err != nil {
					return nil, err
				}
				item := itemVal.(*facade.Facade)
				idVal, err := item.Get("id")
				if err != nil {
					return nil, err
				}
				if idVal.(int) == id {
					return nil, item.Set("done", true)
				}
			}
			return nil, nil
		})
		if err != nil {
			log.Fatalf("fluxdemo: complete: %v", err)
		}
	}

	add("write the spec")
	add("implement the engine")
	complete(1)

	final := s.GetState().(*container.Record)
	todos, _ := final.Get("todos")
	fmt.Printf("%d todos in final state\n", todos.(*container.Sequence).Len())
	for _, raw := range todos.(*container.Sequence).Elements() {
		item := raw.(*container.Record)
		id, _ := item.Get("id")
		title, _ := item.Get("title")
		done, _ := item.Get("done")
		fmt.Printf("  #%v %-24s done=%v\n", id, title, done)
	}
}
