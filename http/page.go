package http

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"moves/avatar"
	"moves/store"
)

//go:embed templates/index.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

const (
	msgMissingFields = "You did not fill out the form."
	msgRecorded      = "Your move was recorded."
	msgWriteFailed   = "Your move could not be recorded."
	msgTooLarge      = "Your move was too long to record."
	msgUnavailable   = "Could not connect to database server."
)

type flash struct {
	Class string
	Text  string
}

type moveView struct {
	Name      string
	Move      string
	AvatarURL string
}

type pageData struct {
	Title     string
	Action    string
	Flash     *flash
	Moves     []moveView
	CSRFField template.HTML
}

func errorFlash(text string) *flash   { return &flash{Class: "error", Text: text} }
func successFlash(text string) *flash { return &flash{Class: "success", Text: text} }

func toViews(moves []store.Move) []moveView {
	views := make([]moveView, len(moves))
	for i, m := range moves {
		views[i] = moveView{
			Name:      m.Name,
			Move:      m.Move,
			AvatarURL: avatar.URL(m.Email, avatar.DefaultSize),
		}
	}
	return views
}

// renderPage executes into a buffer first so a template failure never
// leaves a half written page.
func renderPage(w http.ResponseWriter, data *pageData) error {
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, err := buf.WriteTo(w)
	return err
}
