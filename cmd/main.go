package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"slices"

	"github.com/limaJavier/evoschedule/internal/ga"
	"github.com/limaJavier/evoschedule/internal/model"
)

var Days = map[uint64]string{
	0: "Monday",
	1: "Tuesday",
	2: "Wednesday",
	3: "Thursday",
	4: "Friday",
	5: "Saturday",
	6: "Sunday",
}

func main() {
	const File string = "../test/catalogs/1.json"

	input, err := model.InputFromJson(File)
	if err != nil {
		log.Fatalf("cannot parse input file: %v", err)
	}

	catalog, err := model.NewPreprocessor().BuildCatalog(input)
	if err != nil {
		log.Fatalf("cannot build catalog: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	engine, err := ga.NewEngine(catalog, ga.DefaultConfig(), logger)
	if err != nil {
		log.Fatal(err)
	}

	result, err := engine.Run(context.Background())
	if err != nil {
		log.Fatal(err)
	}

	//** Print the timetable ordered by day then period
	order := make([]int, len(result.Best.Assignments))
	for i := range order {
		order[i] = i
	}
	slices.SortFunc(order, func(a, b int) int {
		slotA, slotB := catalog.Slots[result.Best.Assignments[a].Slot], catalog.Slots[result.Best.Assignments[b].Slot]
		if slotA.Day != slotB.Day {
			return int(slotA.Day) - int(slotB.Day)
		}
		return int(slotA.Period) - int(slotB.Period)
	})

	for _, position := range order {
		session := catalog.Sessions[position]
		assignment := result.Best.Assignments[position]
		slot := catalog.Slots[assignment.Slot]

		fmt.Printf("Period: %v, Day: %v, Session: %v, Teacher: %v, Group: %v, Room: %v \n",
			slot.Period,
			Days[slot.Day],
			session.Id,
			catalog.Teachers[session.Teacher].Id,
			catalog.Groups[session.Group].Id,
			catalog.Rooms[assignment.Room].Id,
		)
	}

	if len(result.Violations) > 0 {
		log.Fatalf("timetable still carries %v violations", len(result.Violations))
	}

	fmt.Println("Well done!")
}
