package views

import (
	"html"
	"maps"
	"slices"
	"strconv"

	"github.com/a-h/templ"

	"folio/internal/models"
)

const timeLayout = "2006-01-02 15:04"

func LoginPage(errMsg string, totp bool) templ.Component {
	return Layout("Sign in",
		templ.Raw(`<h1>Inbox sign in</h1>`),
		fieldError(errMsg),
		templ.Raw(`<form method="post" action="/login">`),
		templ.Raw(`<label>Username <input type="text" name="username" autocomplete="username" required></label>`),
		templ.Raw(`<label>Password <input type="password" name="password" autocomplete="current-password" required></label>`),
		when(totp, templ.Raw(`<label>Authenticator code <input type="text" name="code" inputmode="numeric" autocomplete="one-time-code" required></label>`)),
		templ.Raw(`<button type="submit">Sign in</button></form>`),
	)
}

// Inbox lists one page of submissions.
type Inbox struct {
	Submissions []models.Submission
	Page        int
	PerPage     int
	Total       int
	Unread      int
	CSRFToken   string
}

func (in Inbox) lastPage() int {
	if in.Total == 0 || in.PerPage <= 0 {
		return 1
	}
	return (in.Total + in.PerPage - 1) / in.PerPage
}

func InboxPage(in Inbox) templ.Component {
	header := templ.Join(
		templ.Raw(`<h1>Inbox</h1><p>`),
		text(strconv.Itoa(in.Total)+" messages, "+strconv.Itoa(in.Unread)+" unread"),
		templ.Raw(` · <a href="/inbox/export.csv">Export CSV</a> · <a href="/logout">Sign out</a></p>`),
	)
	if len(in.Submissions) == 0 {
		return Layout("Inbox", header, templ.Raw(`<p>No messages yet.</p>`))
	}

	rows := make([]templ.Component, 0, len(in.Submissions))
	for _, s := range in.Submissions {
		rows = append(rows, inboxRow(s))
	}

	return Layout("Inbox",
		header,
		templ.Raw(`<table><thead><tr><th>Received</th><th>From</th><th>Email</th><th></th></tr></thead><tbody>`),
		templ.Join(rows...),
		templ.Raw(`</tbody></table><nav>`),
		when(in.Page > 1, templ.Raw(`<a href="/inbox?page=`+strconv.Itoa(in.Page-1)+`">Newer</a> `)),
		when(in.Page < in.lastPage(), templ.Raw(`<a href="/inbox?page=`+strconv.Itoa(in.Page+1)+`">Older</a>`)),
		templ.Raw(`</nav>`),
	)
}

func inboxRow(s models.Submission) templ.Component {
	return templ.Join(
		when(s.IsRead(), templ.Raw(`<tr>`)),
		when(!s.IsRead(), templ.Raw(`<tr class="unread">`)),
		templ.Raw(`<td>`), text(s.CreatedAt.Format(timeLayout)),
		templ.Raw(`</td><td>`), stored(s.Name),
		templ.Raw(`</td><td>`), stored(s.Email),
		templ.Raw(`</td><td><a href="/inbox/`), text(s.ID),
		templ.Raw(`">Open</a></td></tr>`),
	)
}

func detailRow(label, value string) templ.Component {
	return when(value != "", templ.Join(
		templ.Raw(`<dt>`), text(label),
		templ.Raw(`</dt><dd>`), stored(value),
		templ.Raw(`</dd>`),
	))
}

func SubmissionPage(s models.Submission, csrfToken string) templ.Component {
	rows := []templ.Component{
		detailRow("Received", s.CreatedAt.Format(timeLayout)),
		detailRow("Email", s.Email),
		detailRow("Phone", s.Phone),
		detailRow("Website", s.Website),
	}
	for _, k := range slices.Sorted(maps.Keys(s.Extra)) {
		rows = append(rows, detailRow(k, s.Extra[k]))
	}
	rows = append(rows, detailRow("IP", s.RemoteIP))

	return Layout("Message from "+html.UnescapeString(s.Name),
		templ.Raw(`<p><a href="/inbox">Back to inbox</a></p><h1>`),
		stored(s.Name),
		templ.Raw(`</h1><dl>`),
		templ.Join(rows...),
		templ.Raw(`</dl><pre class="message">`),
		stored(s.Message),
		templ.Raw(`</pre><form method="post" action="/inbox/`),
		text(s.ID),
		templ.Raw(`/delete"><input type="hidden" name="_csrf" value="`),
		text(csrfToken),
		templ.Raw(`"><button type="submit">Delete</button></form>`),
	)
}
