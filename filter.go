package loadscan

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"text/template"
)

// ThreadIdentity is the part of a thread visible to filters, assembled
// before the thread's CPU time is queried.
type ThreadIdentity struct {
	TID  int
	Name string
}

// FilterMatch contains information about the matching of a ThreadFilter.
type FilterMatch struct {
	Result bool
	Thread *ThreadIdentity
	Reason string // Reason for filter mismatch, if Result is false
}

// ThreadFilterFunc is a callback, used to filter *ThreadIdentity instances.
type ThreadFilterFunc func(thread *ThreadIdentity) bool

// ThreadFilter describes an interface, capable of filtering
// *ThreadIdentity instances.
type ThreadFilter interface {
	Filter(thread *ThreadIdentity) *FilterMatch
}

type baseFilter struct {
	filter         ThreadFilterFunc
	Parameter      interface{}
	reasonTemplate string
}

func (f *baseFilter) renderReason(thread *ThreadIdentity) string {
	t := template.New("filterReason")

	t.Funcs(template.FuncMap{
		"join": func(glue string, slice []int) string {
			parts := make([]string, len(slice))
			for i, v := range slice {
				parts[i] = fmt.Sprint(v)
			}
			return strings.Join(parts, glue)
		},
	})

	_, err := t.Parse(f.reasonTemplate)
	if err != nil {
		panic("could not parse filter reason template: " + err.Error())
	}

	buf := &bytes.Buffer{}
	err = t.Execute(buf, &struct {
		Filter ThreadFilter
		Thread *ThreadIdentity
	}{
		Filter: f,
		Thread: thread,
	})
	if err != nil {
		panic(err)
	}

	return buf.String()
}

func (f *baseFilter) Filter(thread *ThreadIdentity) *FilterMatch {
	result := f.filter(thread)
	match := &FilterMatch{
		Result: result,
		Thread: thread,
	}
	if !result {
		match.Reason = f.renderReason(thread)
	}
	return match
}

// NewTIDFilter creates a new filter, matching only the given thread IDs.
// An empty tid list matches all threads.
func NewTIDFilter(tids []int) ThreadFilter {
	tidSet := make(map[int]bool, len(tids))
	for _, tid := range tids {
		tidSet[tid] = true
	}
	return &baseFilter{
		filter: func(thread *ThreadIdentity) bool {
			if len(tidSet) == 0 {
				return true
			}
			return tidSet[thread.TID]
		},
		Parameter:      tids,
		reasonTemplate: "TID {{.Thread.TID}} is not one of {{join \", \" .Filter.Parameter}}",
	}
}

// NewNameFilter creates a new filter, matching only threads whose name
// matches the given regular expression.
func NewNameFilter(pattern *regexp.Regexp) ThreadFilter {
	return &baseFilter{
		filter: func(thread *ThreadIdentity) bool {
			return pattern.MatchString(thread.Name)
		},
		Parameter:      pattern.String(),
		reasonTemplate: "name \"{{.Thread.Name}}\" does not match \"{{.Filter.Parameter}}\"",
	}
}

type andFilter struct {
	filters []ThreadFilter
}

// NewAndFilter creates a new filter, matching only threads which match all
// given filters. Nil filters are permitted and ignored.
func NewAndFilter(filters ...ThreadFilter) ThreadFilter {
	return &andFilter{filters: filters}
}

func (f *andFilter) Filter(thread *ThreadIdentity) *FilterMatch {
	for _, filter := range f.filters {
		if filter == nil {
			continue
		}
		match := filter.Filter(thread)
		if !match.Result {
			return match
		}
	}
	return &FilterMatch{
		Result: true,
		Thread: thread,
	}
}
