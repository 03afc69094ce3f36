package main

import (
	"github.com/SelfMadeDev/pytaibot/dialog"
	"github.com/SelfMadeDev/pytaibot/internal/flowcfg"
)

const (
	rootNodeName      = "menu"
	departureNodeName = "departure"
)

// buildEngine assembles the dialog tree from the flow definition: the
// root menu plus the departure-collection questionnaire it jumps into.
func buildEngine(flow flowcfg.Flow, store dialog.Store, env *dialog.Env) (*dialog.Engine, error) {
	departure, err := dialog.NewQuestionnaireNode(
		departureNodeName,
		flow.Departure.Questions,
		flow.Departure.Header,
		flow.Departure.Apology,
		flow.Departure.Admin,
	)
	if err != nil {
		return nil, err
	}

	menu := dialog.NewMenuNode(rootNodeName, flow.ResetKeyword, departureNodeName, dialog.MenuTexts{
		Header:    flow.Menu.Header,
		Prompt:    flow.Menu.Prompt,
		NoGeotag:  flow.Menu.NoGeotag,
		NoAirport: flow.Menu.NoAirport,
		SamePlace: flow.Menu.SamePlace,
		Result:    flow.Menu.Result,
	})

	return dialog.NewEngine(menu, store, env, menu.ResultNode(), departure)
}
