package main

import (
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/trezcool/registro/core"
	"github.com/trezcool/registro/core/gradebook"
)

// minNameRatio is the lowest similarity accepted for an approximate name.
const minNameRatio = 0.75

type named struct {
	id   string
	name string
}

type notFoundError struct {
	kind string
	ref  string
}

func (err notFoundError) Error() string {
	return fmt.Sprintf("no %s matches %q", err.kind, err.ref)
}

type ambiguousError struct {
	kind  string
	ref   string
	names []string
}

func (err ambiguousError) Error() string {
	return fmt.Sprintf("%q matches more than one %s: %s", err.ref, err.kind, strings.Join(err.names, ", "))
}

// resolve finds the id referred to by ref: an id, a name ignoring case & accents, or the closest name.
func resolve(kind, ref string, candidates []named) (string, error) {
	ref = core.CleanString(ref)
	for _, c := range candidates {
		if c.id == ref {
			return c.id, nil
		}
	}

	folded := core.FoldString(ref)
	var exact []named
	for _, c := range candidates {
		if core.FoldString(c.name) == folded {
			exact = append(exact, c)
		}
	}
	switch len(exact) {
	case 1:
		return exact[0].id, nil
	case 0:
	default:
		return "", ambiguousError{kind: kind, ref: ref, names: names(exact)}
	}

	var best []named
	var bestRatio float64
	for _, c := range candidates {
		r := nameRatio(folded, core.FoldString(c.name))
		switch {
		case r < minNameRatio || r < bestRatio:
		case r > bestRatio:
			best, bestRatio = []named{c}, r
		default:
			best = append(best, c)
		}
	}
	switch len(best) {
	case 0:
		return "", notFoundError{kind: kind, ref: ref}
	case 1:
		return best[0].id, nil
	}
	return "", ambiguousError{kind: kind, ref: ref, names: names(best)}
}

func nameRatio(a, b string) float64 {
	return difflib.NewMatcher(strings.Split(a, ""), strings.Split(b, "")).Ratio()
}

func names(cs []named) []string {
	ns := make([]string, 0, len(cs))
	for _, c := range cs {
		ns = append(ns, c.name)
	}
	return ns
}

func (cli *commandLine) resolveStudent(st gradebook.State, ref string) (gradebook.Student, error) {
	cs := make([]named, 0, len(st.Students))
	for _, s := range st.Students {
		cs = append(cs, named{id: s.ID, name: s.Name})
	}
	id, err := resolve("student", ref, cs)
	if err != nil {
		return gradebook.Student{}, err
	}
	s, _ := st.FindStudent(id)
	return s, nil
}

func (cli *commandLine) resolveSubject(st gradebook.State, ref string) (gradebook.Subject, error) {
	cs := make([]named, 0, len(st.Subjects))
	for _, s := range st.Subjects {
		cs = append(cs, named{id: s.ID, name: s.Name})
	}
	id, err := resolve("subject", ref, cs)
	if err != nil {
		return gradebook.Subject{}, err
	}
	s, _ := st.FindSubject(id)
	return s, nil
}

// resolveActivity looks among the activities of subjectID, or all of them if subjectID is empty.
func (cli *commandLine) resolveActivity(st gradebook.State, subjectID, ref string) (gradebook.Activity, error) {
	cs := make([]named, 0, len(st.Activities))
	for _, a := range st.Activities {
		if subjectID == "" || a.SubjectID == subjectID {
			cs = append(cs, named{id: a.ID, name: a.Name})
		}
	}
	id, err := resolve("activity", ref, cs)
	if err != nil {
		return gradebook.Activity{}, err
	}
	a, _ := st.FindActivity(id)
	return a, nil
}
