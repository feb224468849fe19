// Package template expands script text such as paths and query strings.
//
//	path: /comment/{{ .comment }}
//	params: orderBy="$key"&startAt="{{ .comment }}"
package template

import (
	"math/rand/v2"
	"strings"
	"text/template"
	"time"

	"github.com/google/uuid"
	"github.com/jacoelho/flame/internal/pushid"
)

// FuncMap returns the functions available to script templates.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"uuid":     uuid.NewString,
		"now":      timeNow,
		"millis":   timeMillis,
		"pushTime": pushid.Timestamp,

		"upper": strings.ToUpper,
		"lower": strings.ToLower,
		"trim":  strings.TrimSpace,

		"randomKey": randomKey,
	}
}

func timeNow() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func timeMillis() int64 {
	return time.Now().UnixMilli()
}

// randomKey returns a key of length characters from the push key alphabet.
func randomKey(length int) string {
	if length <= 0 {
		return ""
	}

	buf := make([]byte, length)
	for i := range buf {
		buf[i] = pushid.Alphabet[rand.IntN(len(pushid.Alphabet))]
	}
	return string(buf)
}

func newTemplate(name string) *template.Template {
	return template.New(name).Option("missingkey=error").Funcs(FuncMap())
}

// Render executes text as a template over vars. Text without an action is
// returned unchanged.
func Render(name, text string, vars map[string]any) (string, error) {
	if !strings.Contains(text, "{{") {
		return text, nil
	}

	tmpl, err := newTemplate(name).Parse(text)
	if err != nil {
		return "", err
	}

	var buf strings.Builder
	if err := tmpl.Execute(&buf, vars); err != nil {
		return "", err
	}
	return buf.String(), nil
}
