package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/earley/earley"
)

type JSONEncoder struct {
	w     io.Writer
	chart *earley.Chart
}

func NewJSONEncoder(w io.Writer) *JSONEncoder {
	return &JSONEncoder{w: w}
}

func (e *JSONEncoder) Encode(chart *earley.Chart) error {
	e.chart = chart
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(append(text, '\n'))
	return err
}

func (e *JSONEncoder) MarshalText() ([]byte, error) {
	data := e.buildChartData()
	return json.MarshalIndent(data, "", "  ")
}

type jsonChart struct {
	Accepted bool        `json:"accepted"`
	Input    []string    `json:"input"`
	Nullable []string    `json:"nullable,omitempty"`
	States   []jsonState `json:"states"`
}

type jsonState struct {
	Position int        `json:"position"`
	Items    []jsonItem `json:"items"`
}

type jsonItem struct {
	Rule     string `json:"rule"`
	Alt      int    `json:"alt"`
	Dot      int    `json:"dot"`
	Origin   int    `json:"origin"`
	Complete bool   `json:"complete,omitempty"`
	Text     string `json:"text"`
}

func (e *JSONEncoder) buildChartData() jsonChart {
	c := e.chart
	g := c.Grammar()

	data := jsonChart{
		Accepted: c.Accepted(),
		Input:    make([]string, 0, len(c.Input())),
		States:   make([]jsonState, 0, len(c.States())),
	}
	for _, tok := range c.Input() {
		data.Input = append(data.Input, g.Name(tok))
	}
	for _, sym := range c.Nullable().Symbols() {
		data.Nullable = append(data.Nullable, g.Name(sym))
	}

	for _, state := range c.States() {
		js := jsonState{
			Position: state.Position(),
			Items:    make([]jsonItem, 0, state.Len()),
		}
		for _, item := range state.Items() {
			js.Items = append(js.Items, jsonItem{
				Rule:     g.Name(item.Rule),
				Alt:      item.Alt,
				Dot:      item.Dot,
				Origin:   item.Origin,
				Complete: item.Complete(g),
				Text:     Item(g, item),
			})
		}
		data.States = append(data.States, js)
	}

	return data
}
