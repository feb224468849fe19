package script

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/jacoelho/flame"
	"github.com/jacoelho/flame/internal/ratelimit"
	"github.com/jacoelho/flame/tree"
)

const seed = `{
	"user": {
		"abcd": {"name": "Joshua Moreno", "age": 85},
		"efgh": {"name": "Nancy Oconnell", "age": 7}
	},
	"item": {"0": "zeroth", "1": "first", "2": "second", "10": "tenth"}
}`

func newStore(t *testing.T) *flame.Store {
	t.Helper()

	store := flame.New()
	if err := store.LoadJSON(strings.NewReader(seed)); err != nil {
		t.Fatalf("LoadJSON() error = %v", err)
	}
	return store
}

func mustParse(t *testing.T, src string) []Step {
	t.Helper()

	steps, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return steps
}

func readLines(t *testing.T, buf *bytes.Buffer) []StepResult {
	t.Helper()

	var out []StepResult
	scanner := bufio.NewScanner(buf)
	for scanner.Scan() {
		var line StepResult
		if err := json.Unmarshal(scanner.Bytes(), &line); err != nil {
			t.Fatalf("decode line %q: %v", scanner.Text(), err)
		}
		out = append(out, line)
	}
	return out
}

func TestRun(t *testing.T) {
	t.Parallel()

	steps := mustParse(t, `
- name: first three items
  op: get
  path: /item
  query: {orderBy: $key, limitToFirst: 3}
  expect: [zeroth, first, second]
- op: get
  path: /item
  params: orderBy="$key"&limitToFirst=3&startAt=1
  expect: {"1": first, "2": second, "10": tenth}
- op: patch
  path: /user/abcd
  value: {name: X}
- op: get
  path: /user/abcd
  expect: {name: X, age: 85}
- op: post
  path: /comment
  value: {body: hi}
  capture: comment
- op: get
  path: '/comment/{{ .comment }}'
  select: $.body
  expect: hi
- op: get
  path: /user
  query: {orderBy: age, limitToLast: 1}
  select: $.*.name
  capture: youngest
- op: delete
  path: '/user/{{ lower "ABCD" }}'
- op: get
  path: /user/abcd
  expect: null
`)

	var out bytes.Buffer
	runner := New(newStore(t), Options{Output: &out, Pacer: ratelimit.New(0)})

	result, err := runner.Run(context.Background(), "flow.yaml", steps)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !result.OK() {
		t.Fatalf("Run() failures = %+v", result.Failures)
	}
	if result.Steps != len(steps) {
		t.Fatalf("Run() steps = %d, want %d", result.Steps, len(steps))
	}

	lines := readLines(t, &out)
	if len(lines) != len(steps) {
		t.Fatalf("output lines = %d, want %d", len(lines), len(steps))
	}
	if lines[0].Name != "first three items" || lines[0].File != "flow.yaml" || lines[0].Step != 1 {
		t.Fatalf("first line = %+v", lines[0])
	}
	if got := lines[0].Result.String(); got != `["zeroth","first","second"]` {
		t.Fatalf("first result = %s", got)
	}
	if lines[7].Path != "/user/abcd" {
		t.Fatalf("rendered path = %q, want /user/abcd", lines[7].Path)
	}

	vars := runner.Variables()
	comment, _ := vars["comment"].(string)
	if len(comment) != 20 {
		t.Fatalf("captured comment = %v, want push key", vars["comment"])
	}
	if vars["youngest"] != "Nancy Oconnell" {
		t.Fatalf("captured youngest = %v", vars["youngest"])
	}
}

func TestRunRecordsFailuresAndContinues(t *testing.T) {
	t.Parallel()

	steps := mustParse(t, `
- name: wrong age
  op: get
  path: /user/abcd/age
  expect: 86
- name: missing orderBy
  op: get
  path: /user
  query: {limitToFirst: 1}
- name: unknown variable
  op: get
  path: '/user/{{ .nobody }}'
- name: no match
  op: get
  path: /user/abcd
  select: $.email
- name: scalar patch
  op: patch
  path: /user
  value: 3
- name: still running
  op: get
  path: /user/efgh/age
  expect: 7
`)

	var out bytes.Buffer
	result, err := New(newStore(t), Options{Output: &out}).Run(context.Background(), "fail.yaml", steps)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	wantFailed := []string{"wrong age", "missing orderBy", "unknown variable", "no match", "scalar patch"}
	if len(result.Failures) != len(wantFailed) {
		t.Fatalf("failures = %+v, want %v", result.Failures, wantFailed)
	}
	for i, name := range wantFailed {
		if result.Failures[i].Name != name {
			t.Fatalf("failure[%d] = %q, want %q", i, result.Failures[i].Name, name)
		}
	}

	lines := readLines(t, &out)
	if !strings.Contains(lines[0].Error, ErrExpectation.Error()) {
		t.Fatalf("expectation error = %q", lines[0].Error)
	}
	if !strings.Contains(lines[1].Error, flame.ErrMissingOrderBy.Error()) {
		t.Fatalf("orderBy error = %q", lines[1].Error)
	}
	if !strings.Contains(lines[4].Error, flame.ErrInvalidPatch.Error()) {
		t.Fatalf("patch error = %q", lines[4].Error)
	}
	if !lines[5].OK {
		t.Fatalf("last step = %+v, want ok", lines[5])
	}
}

func TestRunSharesVariablesAcrossScripts(t *testing.T) {
	t.Parallel()

	runner := New(newStore(t), Options{Variables: map[string]any{"user": "efgh"}})

	first := mustParse(t, "- op: post\n  path: /comment\n  value: hi\n  capture: id")
	second := mustParse(t, "- op: get\n  path: '/comment/{{ .id }}'\n  expect: hi\n- op: get\n  path: '/user/{{ .user }}/age'\n  expect: 7")

	if _, err := runner.Run(context.Background(), "first.yaml", first); err != nil {
		t.Fatalf("Run(first) error = %v", err)
	}
	result, err := runner.Run(context.Background(), "second.yaml", second)
	if err != nil {
		t.Fatalf("Run(second) error = %v", err)
	}
	if !result.OK() {
		t.Fatalf("Run(second) failures = %+v", result.Failures)
	}
}

func TestRunRendersValues(t *testing.T) {
	t.Parallel()

	store := newStore(t)
	steps := mustParse(t, `
- op: put
  path: /user/abcd/greeting
  value: {text: 'hello {{ .who }}', list: ['{{ upper .who }}']}
`)

	result, err := New(store, Options{Variables: map[string]any{"who": "ana"}}).Run(context.Background(), "render.yaml", steps)
	if err != nil || !result.OK() {
		t.Fatalf("Run() = %+v, %v", result, err)
	}

	got, err := store.Get("/user/abcd/greeting", nil)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	want, _ := tree.UnmarshalValue([]byte(`{"text":"hello ana","list":["ANA"]}`))
	if !tree.Equal(got, want) {
		t.Fatalf("Get() = %s, want %s", got, want)
	}
}

func TestRunStopsWhenCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	steps := mustParse(t, "- op: get\n  path: /user")
	result, err := New(newStore(t), Options{}).Run(ctx, "cancel.yaml", steps)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want context.Canceled", err)
	}
	if result.Steps != 0 {
		t.Fatalf("Run() steps = %d, want 0", result.Steps)
	}
}

func TestSelectPath(t *testing.T) {
	t.Parallel()

	doc, _ := tree.UnmarshalValue([]byte(`{"a":{"n":1},"b":{"n":2}}`))

	got, err := selectPath(doc, "$.a.n")
	if err != nil || !tree.Equal(got, tree.Number(1)) {
		t.Fatalf("selectPath($.a.n) = %s, %v", got, err)
	}

	got, err = selectPath(doc, "$.*.n")
	if err != nil {
		t.Fatalf("selectPath($.*.n) error = %v", err)
	}
	if c, ok := got.AsContainer(); !ok || c.Len() != 2 {
		t.Fatalf("selectPath($.*.n) = %s, want two matches", got)
	}

	if _, err := selectPath(doc, "$[?"); err == nil {
		t.Fatal("selectPath() with invalid expression error = nil")
	}
	if _, err := selectPath(doc, "$.c"); !errors.Is(err, errNoMatch) {
		t.Fatalf("selectPath($.c) error = %v, want errNoMatch", err)
	}
}
