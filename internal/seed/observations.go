package seed

import (
	"fmt"
	"os"

	"servenet/internal/store"
	"servenet/internal/utils"
	"servenet/pkg/types"

	"gopkg.in/yaml.v3"
)

// DemoObservations is submitted into a fresh session when demo data is on,
// and by `servenet simulate` when no fixture file is given.
var DemoObservations = []types.SubmissionForm{
	{
		Category:    types.CategoryEnvironment,
		Title:       "Rising Water Level in Kaduna",
		Description: "Water overflow observed near riverbank after two days of rain.",
		Location:    "10.21, 7.43",
		Temperature: "28",
		Humidity:    "93",
	},
	{
		Category:     types.CategoryAgriculture,
		Title:        "Dry topsoil in maize plot",
		Description:  "Leaves curling by midday, no irrigation for a week.",
		Location:     "Zaria",
		Temperature:  "34",
		Humidity:     "41",
		SoilMoisture: "12",
	},
	{
		Category:    types.CategoryInfrastructure,
		Title:       "Cracked culvert on feeder road",
		Description: "Culvert partially collapsed, vehicles rerouting through farmland.",
		Location:    "Kafanchan",
	},
	{
		Category:    types.CategoryWeather,
		Title:       "Hail before sunset",
		Description: "Pea-sized hail for roughly ten minutes.",
		Location:    "Jos Plateau",
		Temperature: "19",
		Humidity:    "78",
	},
}

type fixtureFile struct {
	Observations []fixtureObservation `yaml:"observations"`
}

type fixtureObservation struct {
	Category     string `yaml:"category"`
	Title        string `yaml:"title"`
	Description  string `yaml:"description"`
	Location     string `yaml:"location"`
	Temperature  string `yaml:"temperature"`
	Humidity     string `yaml:"humidity"`
	SoilMoisture string `yaml:"soil_moisture"`
}

// ParseFixture decodes a YAML list of observations.
func ParseFixture(data []byte) ([]types.SubmissionForm, error) {
	var file fixtureFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode fixture: %w", err)
	}

	forms := make([]types.SubmissionForm, 0, len(file.Observations))
	for _, o := range file.Observations {
		forms = append(forms, types.SubmissionForm{
			Category:     o.Category,
			Title:        o.Title,
			Description:  o.Description,
			Location:     o.Location,
			Temperature:  o.Temperature,
			Humidity:     o.Humidity,
			SoilMoisture: o.SoilMoisture,
		})
	}
	return forms, nil
}

func LoadFixture(path string) ([]types.SubmissionForm, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}

	forms, err := ParseFixture(data)
	return forms, utils.ErrorWrapOrNil(err, path)
}

// SeedObservations submits each form into s and returns the created records.
func SeedObservations(s *store.SubmissionStore, forms []types.SubmissionForm) []types.Submission {
	created := make([]types.Submission, 0, len(forms))
	for _, form := range forms {
		created = append(created, s.Submit(form))
	}
	return created
}
