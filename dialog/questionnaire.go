package dialog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// QuestionnaireNode asks a fixed list of questions, one per inbound
// message, then resolves the collected answers against the city lookup.
// Answers that look like place names route their resolved code into the
// departure or arrival field depending on the question wording.
type QuestionnaireNode struct {
	name      string
	questions []string
	header    string
	// apology is a format template with one %s verb for the answer that
	// failed to resolve.
	apology string
	admin   string
}

func NewQuestionnaireNode(name string, questions []string, header, apology, admin string) (*QuestionnaireNode, error) {
	if len(questions) == 0 {
		return nil, errors.New("dialog: questionnaire needs at least one question")
	}
	return &QuestionnaireNode{
		name:      name,
		questions: questions,
		header:    header,
		apology:   apology,
		admin:     admin,
	}, nil
}

func (n *QuestionnaireNode) Name() string { return n.name }

// Steps returns one step per question plus the final resolve step.
func (n *QuestionnaireNode) Steps() []Step {
	steps := make([]Step, 0, len(n.questions)+1)
	for i, q := range n.questions {
		steps = append(steps, n.askStep(i, q))
	}
	steps = append(steps, n.resolveStep)
	return steps
}

func (n *QuestionnaireNode) askStep(index int, question string) Step {
	return func(ctx context.Context, ev Event, st *State, env *Env) (bool, error) {
		if index == 0 {
			// Entering the questionnaire: any scratch from an aborted
			// earlier pass is stale.
			st.Questionnaire = nil
			if n.header != "" {
				n.send(ctx, ev, env, n.header)
			}
		} else {
			recordAnswer(st, ev.Text)
		}
		st.Questionnaire = append(st.Questionnaire, QA{Question: question})
		n.send(ctx, ev, env, question)
		return false, nil
	}
}

func (n *QuestionnaireNode) resolveStep(ctx context.Context, ev Event, st *State, env *Env) (bool, error) {
	recordAnswer(st, ev.Text)

	apology := ""
	for _, qa := range st.Questionnaire {
		if !looksLikePlaceName(qa.Answer) {
			continue
		}
		code, err := env.Resolver.CityToCode(ctx, qa.Answer)
		if err != nil {
			env.logger().Warn("city_lookup_failed", "thread", ev.Thread.ID, "city", qa.Answer, "error", err.Error())
			code = ""
		}
		if code == "" {
			apology = fmt.Sprintf(n.apology, qa.Answer)
		}
		// A failed lookup clears only the field this question routes to;
		// the other code survives.
		switch {
		case strings.Contains(qa.Question, "departure"):
			st.Departure = code
		case strings.Contains(qa.Question, "arrival"):
			st.Arrival = code
		}
	}

	// The questionnaire's scratch never survives its own completion.
	st.Questionnaire = nil

	if apology != "" {
		n.send(ctx, ev, env, apology)
		return false, nil
	}

	// Everything resolved: hand control straight back to the root so the
	// same event can complete the search without another message.
	st.Node = ""
	st.Step = 0
	return true, nil
}

func (n *QuestionnaireNode) send(ctx context.Context, ev Event, env *Env, text string) {
	if err := env.Messenger.SendText(ctx, ev.Sender.ID, text); err != nil {
		env.logger().Warn("questionnaire_send_failed", "node", n.name, "error", err.Error())
	}
}

func recordAnswer(st *State, text string) {
	if len(st.Questionnaire) == 0 {
		return
	}
	st.Questionnaire[len(st.Questionnaire)-1].Answer = text
}

// looksLikePlaceName is the light validation applied before spending a
// lookup call: non-empty, letters and spaces only.
func looksLikePlaceName(s string) bool {
	if strings.TrimSpace(s) == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}
