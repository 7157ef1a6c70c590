package model

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"
)

type Course struct {
	Id              string
	Group           string
	Teacher         string // optional explicit teacher; resolved from qualifications when empty
	LecturesPerWeek uint64 `mapstructure:"lecturesPerWeek"`
	ExpectedSize    uint64 `mapstructure:"expectedSize"`
}

type TeacherSpec struct {
	Id        string
	Qualified []string
	Available []string
	Preferred []string
}

type GroupSpec struct {
	Id       string
	Students uint64
}

type RoomSpec struct {
	Id       string
	Capacity uint64
}

type SlotSpec struct {
	Id     string
	Day    uint64
	Period uint64
}

type CatalogInput struct {
	Courses  []Course
	Teachers []TeacherSpec
	Groups   []GroupSpec
	Rooms    []RoomSpec
	Slots    []SlotSpec
}

func InputFromJson(file string) (CatalogInput, error) {
	bytes, err := os.ReadFile(file)
	if err != nil {
		return CatalogInput{}, err
	}

	var inputJson map[string]any
	if err := json.Unmarshal(bytes, &inputJson); err != nil {
		return CatalogInput{}, err
	}

	var input CatalogInput
	if err := mapstructure.Decode(inputJson, &input); err != nil {
		return CatalogInput{}, fmt.Errorf("cannot decode input: %w", err)
	}

	return input, nil
}
