// Package flowcfg loads the dialog-flow definition: the menu texts, the
// reset keyword and the questionnaire prompts. Without a file the bot
// runs the built-in travel flow.
package flowcfg

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Flow struct {
	ResetKeyword string        `yaml:"reset_keyword"`
	Menu         Menu          `yaml:"menu"`
	Departure    Questionnaire `yaml:"departure"`
}

type Menu struct {
	Header    string `yaml:"header"`
	Prompt    string `yaml:"prompt"`
	NoGeotag  string `yaml:"no_geotag"`
	NoAirport string `yaml:"no_airport"`
	SamePlace string `yaml:"same_place"`
	Result    string `yaml:"result"`
}

type Questionnaire struct {
	Questions []string `yaml:"questions"`
	Header    string   `yaml:"header"`
	// Apology is a format template with one %s verb for the answer that
	// could not be resolved.
	Apology string `yaml:"apology"`
	Admin   string `yaml:"admin"`
}

// Default is the built-in travel-search flow.
func Default() Flow {
	return Flow{
		ResetKeyword: "new",
		Menu: Menu{
			Header: "Hey! It's simple as one-two-three:\n" +
				"1️⃣Find inspiring travel photo or video on Instagram\n" +
				"2️⃣Share the content with me via direct message\n" +
				"3️⃣Get a link to the cheapest flights to exact location from the content\n" +
				"Just do it! We both know you can... 😉",
			Prompt: "Where would you like to travel next time? 🌎\n" +
				"To change the departure type \"new\" (without quotes) 🛫",
			NoGeotag: "Sorry, I haven't yet learned to find places without geotags... " +
				"Try another media, please! 🌎",
			NoAirport: "Sorry, I can't find an airport near that place. " +
				"Try another media, please! 🌎",
			SamePlace: "Are you trying to travel without leaving home? " +
				"Departure and arrival must be different! 😏",
			Result: "I hope this is what you're looking for: %s",
		},
		Departure: Questionnaire{
			Questions: []string{"City of departure? 🛫"},
			Apology:   "Sorry, I can't find airport near %s. Let's try another one? 😞",
			Admin:     "travelwithai",
		},
	}
}

// Load reads a flow file and fills gaps with the defaults. An empty path
// returns the defaults unchanged.
func Load(path string) (Flow, error) {
	flow := Default()
	if path == "" {
		return flow, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Flow{}, fmt.Errorf("flowcfg: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &flow); err != nil {
		return Flow{}, fmt.Errorf("flowcfg: parse %s: %w", path, err)
	}
	if err := flow.validate(); err != nil {
		return Flow{}, fmt.Errorf("flowcfg: %s: %w", path, err)
	}
	return flow, nil
}

func (f Flow) validate() error {
	if f.ResetKeyword == "" {
		return fmt.Errorf("reset_keyword must not be empty")
	}
	if len(f.Departure.Questions) == 0 {
		return fmt.Errorf("departure.questions must not be empty")
	}
	for i, q := range f.Departure.Questions {
		if q == "" {
			return fmt.Errorf("departure.questions[%d] is empty", i)
		}
	}
	return nil
}
