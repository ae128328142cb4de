package views

import (
	"github.com/a-h/templ"

	"folio/internal/config"
)

// ContactForm is what the contact page needs to (re)render the form.
type ContactForm struct {
	Values map[string]string
	Errors map[string]string
	Sent   bool
}

type formField struct {
	name, label, kind string
	required          bool
}

var contactFields = []formField{
	{"name", "Name", "text", true},
	{"email", "Email", "email", true},
	{"phone", "Phone", "tel", false},
	{"website", "Website", "url", false},
	{"subject", "Subject", "text", false},
}

func ContactPage(site config.Site, form ContactForm) templ.Component {
	inputs := make([]templ.Component, 0, len(contactFields))
	for _, f := range contactFields {
		inputs = append(inputs, contactInput(f, form.Values[f.name], form.Errors[f.name]))
	}

	return Layout("Contact | "+site.Name,
		templ.Raw(`<h1>Contact `), text(site.Name), templ.Raw(`</h1>`),
		when(form.Sent, templ.Raw(`<p class="notice" role="status">Thanks, your message was sent.</p>`)),
		templ.Raw(`<form method="post" action="/contact" novalidate>`),
		templ.Join(inputs...),
		templ.Raw(`<label>Message <textarea name="message" rows="8" required>`),
		stored(form.Values["message"]),
		templ.Raw(`</textarea></label>`),
		fieldError(form.Errors["message"]),
		// Hidden from people; bots filling it are discarded.
		templ.Raw(`<input type="text" name="company_url" tabindex="-1" autocomplete="off" hidden>`),
		templ.Raw(`<button type="submit">Send</button></form>`),
	)
}

func contactInput(f formField, value, errMsg string) templ.Component {
	return templ.Join(
		templ.Raw(`<label>`), text(f.label),
		templ.Raw(` <input type="`+f.kind+`" name="`+f.name+`" value="`),
		stored(value),
		when(f.required, templ.Raw(`" required>`)),
		when(!f.required, templ.Raw(`">`)),
		templ.Raw(`</label>`),
		fieldError(errMsg),
	)
}
