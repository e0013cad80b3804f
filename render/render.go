// Package render turns a board.UiState into a DOM tree.
//
// Rendering is a pure function of the state: every call builds a fresh tree, so the
// output never depends on what was rendered before. The tree uses the element ids the
// host page contract names:
//
//	activities-list  container of activity cards
//	signup-form      form with an "email" input and the "activity" selector
//	activity         signup selector
//	message          status banner, "hidden" class when not visible
package render

import (
	"fmt"
	"io"
	"net/url"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/nomis52/activityboard/board"
	"github.com/nomis52/activityboard/status"
)

// Element ids of the host page contract.
const (
	ActivitiesListID = "activities-list"
	SignupFormID     = "signup-form"
	ActivitySelectID = "activity"
	EmailInputID     = "email"
	MessageID        = "message"
)

const (
	// NoParticipantsText is the placeholder row of an activity without participants.
	NoParticipantsText = "No participants yet — be the first to join!"
	// SelectPlaceholder is the first, empty option of the signup selector.
	SelectPlaceholder = "-- Select an activity --"
	// PageTitle is the document title.
	PageTitle = "Mergington High School Activities"
)

// SignupPath is where the signup form posts.
const SignupPath = "/signup"

// UnregisterPath is where the delete control of row posts.
func UnregisterPath(row board.RowID) string {
	return "/participants/" + url.PathEscape(string(row)) + "/unregister"
}

// SpotsLeftText formats the availability line value.
func SpotsLeftText(spots int) string {
	return fmt.Sprintf("%d spots left", spots)
}

// Page renders the complete document.
func Page(state board.UiState) *html.Node {
	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})

	root := elem(atom.Html, attr("lang", "en"))
	head := elem(atom.Head)
	appendAll(head,
		elem(atom.Meta, attr("charset", "UTF-8")),
		elem(atom.Meta, attr("name", "viewport"), attr("content", "width=device-width, initial-scale=1.0")),
		withText(elem(atom.Title), PageTitle),
		withText(elem(atom.Style), ".hidden{display:none}"),
	)

	body := elem(atom.Body)
	header := elem(atom.Header)
	appendAll(header,
		withText(elem(atom.H1), "Mergington High School"),
		withText(elem(atom.H2), "Extracurricular Activities"),
	)

	content := elem(atom.Main)
	listSection := elem(atom.Section, attr("id", "activities-container"))
	appendAll(listSection, withText(elem(atom.H3), "Available Activities"), ActivityList(state))

	signupSection := elem(atom.Section, attr("id", "signup-container"))
	appendAll(signupSection,
		withText(elem(atom.H3), "Sign Up for an Activity"),
		SignupForm(state),
		Message(state.Status),
	)
	appendAll(content, listSection, signupSection)

	appendAll(body, header, content)
	appendAll(root, head, body)
	doc.AppendChild(root)
	return doc
}

// Board renders the fragment that changes between operations: the activity list,
// the signup form and the status banner.
func Board(state board.UiState) []*html.Node {
	return []*html.Node{ActivityList(state), SignupForm(state), Message(state.Status)}
}

// ActivityList renders the activities-list container. A failed load renders the
// failure notice in place of the cards.
func ActivityList(state board.UiState) *html.Node {
	list := elem(atom.Div, attr("id", ActivitiesListID))
	if state.LoadFailed() {
		list.AppendChild(withText(elem(atom.P, attr("class", "load-error")), state.LoadError))
		return list
	}
	for _, a := range state.Activities {
		list.AppendChild(activityCard(a))
	}
	return list
}

func activityCard(a board.RenderedActivity) *html.Node {
	card := elem(atom.Div, attr("class", "activity-card"), attr("data-activity", string(a.Name)))
	appendAll(card,
		withText(elem(atom.H4), string(a.Name)),
		withText(elem(atom.P), a.Description),
		labelled("Schedule:", a.Schedule),
		labelled("Availability:", SpotsLeftText(a.SpotsLeft)),
		participantsSection(a),
	)
	return card
}

func participantsSection(a board.RenderedActivity) *html.Node {
	section := elem(atom.Div, attr("class", "participants-section"))
	list := elem(atom.Ul, attr("class", "participants-list"))

	if len(a.Participants) == 0 {
		list.AppendChild(withText(elem(atom.Li, attr("class", "no-participants")), NoParticipantsText))
	}
	for _, p := range a.Participants {
		list.AppendChild(participantRow(p))
	}

	appendAll(section, withText(elem(atom.H5), "Participants:"), list)
	return section
}

func participantRow(p board.Participant) *html.Node {
	row := elem(atom.Li, attr("class", "participant-item"), attr("data-row", string(p.Row)))
	form := elem(atom.Form,
		attr("class", "unregister-form"),
		attr("method", "post"),
		attr("action", UnregisterPath(p.Row)),
	)
	form.AppendChild(withText(elem(atom.Button,
		attr("type", "submit"),
		attr("class", "delete-btn"),
		attr("title", "Unregister "+p.Email),
	), "🗑"))

	appendAll(row, withText(elem(atom.Span, attr("class", "participant-email")), p.Email), form)
	return row
}

// SignupForm renders the signup form including the activity selector.
func SignupForm(state board.UiState) *html.Node {
	form := elem(atom.Form, attr("id", SignupFormID), attr("method", "post"), attr("action", SignupPath))

	emailGroup := elem(atom.Div, attr("class", "form-group"))
	appendAll(emailGroup,
		withText(elem(atom.Label, attr("for", EmailInputID)), "Student Email:"),
		elem(atom.Input,
			attr("type", "email"),
			attr("id", EmailInputID),
			attr("name", "email"),
			attr("required", ""),
			attr("placeholder", "your-email@mergington.edu"),
			attr("value", state.Form.Email),
		),
	)

	activityGroup := elem(atom.Div, attr("class", "form-group"))
	appendAll(activityGroup,
		withText(elem(atom.Label, attr("for", ActivitySelectID)), "Select Activity:"),
		Selector(state),
	)

	appendAll(form, emailGroup, activityGroup, withText(elem(atom.Button, attr("type", "submit")), "Sign Up"))
	return form
}

// Selector renders the activity selector: a placeholder followed by one option per
// activity in catalog order.
func Selector(state board.UiState) *html.Node {
	sel := elem(atom.Select, attr("id", ActivitySelectID), attr("name", "activity"), attr("required", ""))
	sel.AppendChild(withText(elem(atom.Option, attr("value", "")), SelectPlaceholder))
	for _, name := range state.Options {
		opt := elem(atom.Option, attr("value", string(name)))
		if name == state.Form.Activity {
			opt.Attr = append(opt.Attr, attr("selected", ""))
		}
		sel.AppendChild(withText(opt, string(name)))
	}
	return sel
}

// Message renders the status banner.
func Message(msg status.Message) *html.Node {
	return withText(elem(atom.Div, attr("id", MessageID), attr("class", MessageClass(msg))), msg.Text)
}

// MessageClass returns the banner's class attribute.
func MessageClass(msg status.Message) string {
	class := "message"
	if msg.Severity != "" {
		class += " " + string(msg.Severity)
	}
	if !msg.Visible {
		class += " hidden"
	}
	return class
}

// HTML serialises nodes to w.
func HTML(w io.Writer, nodes ...*html.Node) error {
	for _, n := range nodes {
		if err := html.Render(w, n); err != nil {
			return fmt.Errorf("rendering %s: %w", n.Data, err)
		}
	}
	return nil
}

func elem(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String(), Attr: attrs}
}

func attr(key, val string) html.Attribute {
	return html.Attribute{Key: key, Val: val}
}

func withText(n *html.Node, s string) *html.Node {
	n.AppendChild(&html.Node{Type: html.TextNode, Data: s})
	return n
}

func labelled(label, value string) *html.Node {
	p := elem(atom.P)
	appendAll(p, withText(elem(atom.Strong), label), &html.Node{Type: html.TextNode, Data: " " + value})
	return p
}

func appendAll(parent *html.Node, children ...*html.Node) {
	for _, c := range children {
		parent.AppendChild(c)
	}
}
