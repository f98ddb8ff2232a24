package models

import "testing"

func TestIsDurationPhrase(t *testing.T) {
	valid := []string{
		"30 minutes",
		"1 hour 30 minutes",
		"2h20min",
		"1 day",
		"3 weeks and 2 days",
	}
	for _, s := range valid {
		if !isDurationPhrase(s) {
			t.Errorf("%q should be a valid duration phrase", s)
		}
	}

	invalid := []string{
		"",
		"90",
		"soonish",
		"30 parsecs",
		"minutes 30",
	}
	for _, s := range invalid {
		if isDurationPhrase(s) {
			t.Errorf("%q should not be a valid duration phrase", s)
		}
	}
}

func TestBlockNamePattern(t *testing.T) {
	for _, name := range []string{"build", "build-job", ".hidden", ".pre", "a.b.c"} {
		if !blockNamePattern.MatchString(name) {
			t.Errorf("%q should be a valid block name", name)
		}
	}
	for _, name := range []string{"", "job name", "job/x", "$job"} {
		if blockNamePattern.MatchString(name) {
			t.Errorf("%q should not be a valid block name", name)
		}
	}
}
