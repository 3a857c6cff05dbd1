package match

import (
	"reflect"
	"testing"

	"github.com/shotplan/shotplan/internal/project"
)

func TestSanitizeComponent(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Wide Shot", "wide_shot"},
		{"VERSE 1", "verse_1"},
		{"  --Intro!!  ", "intro"},
		{"Take 2", "take_2"},
		{"шот", ""},
		{"", ""},
		{"already_clean", "already_clean"},
	}
	for _, tt := range tests {
		if got := SanitizeComponent(tt.in); got != tt.want {
			t.Errorf("SanitizeComponent(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBuildShotStem(t *testing.T) {
	if got := BuildShotStem("Intro", 0, "Wide Shot", ""); got != "intro_01_wide_shot" {
		t.Errorf("got %q", got)
	}
	if got := BuildShotStem("Intro", 0, "Wide Shot", "Take 2"); got != "intro_01_wide_shot_take_2" {
		t.Errorf("got %q", got)
	}
	if got := BuildShotStem("Chorus", 11, "Drop", ""); got != "chorus_12_drop" {
		t.Errorf("got %q", got)
	}
}

func TestMatchExact(t *testing.T) {
	res := Match([]string{"a_01_b"}, []File{{Stem: "a_01_b", Path: "/x"}})
	if !reflect.DeepEqual(res.Matches["a_01_b"], []string{"/x"}) {
		t.Errorf("matches = %v", res.Matches)
	}
	if len(res.Unmatched) != 0 {
		t.Errorf("unmatched = %v", res.Unmatched)
	}
}

func TestMatchExactCaseInsensitive(t *testing.T) {
	res := Match([]string{"verse_01_wide"}, []File{{Stem: "Verse_01_Wide", Path: "/v"}})
	if !reflect.DeepEqual(res.Matches["verse_01_wide"], []string{"/v"}) {
		t.Errorf("matches = %v", res.Matches)
	}
}

func TestMatchDedupSuffixGrouping(t *testing.T) {
	expected := []string{"s_01_shot_1", "s_01_shot_2"}
	files := []File{
		{Stem: "s_01_shot (2)", Path: "/b"},
		{Stem: "s_01_shot", Path: "/a"},
	}
	res := Match(expected, files)
	if !reflect.DeepEqual(res.Matches["s_01_shot_1"], []string{"/a"}) {
		t.Errorf("s_01_shot_1 -> %v, want [/a]", res.Matches["s_01_shot_1"])
	}
	if !reflect.DeepEqual(res.Matches["s_01_shot_2"], []string{"/b"}) {
		t.Errorf("s_01_shot_2 -> %v, want [/b]", res.Matches["s_01_shot_2"])
	}
	if len(res.Unmatched) != 0 {
		t.Errorf("unmatched = %v", res.Unmatched)
	}
}

func TestMatchDedupLeftovers(t *testing.T) {
	expected := []string{"s_01_shot_1"}
	files := []File{
		{Stem: "s_01_shot", Path: "/a"},
		{Stem: "s_01_shot (2)", Path: "/b"},
	}
	res := Match(expected, files)
	if !reflect.DeepEqual(res.Matches["s_01_shot_1"], []string{"/a"}) {
		t.Errorf("matches = %v", res.Matches)
	}
	if !reflect.DeepEqual(res.Unmatched, []string{"s_01_shot (2)"}) {
		t.Errorf("unmatched = %v", res.Unmatched)
	}
}

func TestMatchPrefixTruncation(t *testing.T) {
	exp := "verse_01_a_very_long_shot_name_that_got_cut"
	truncated := "verse_01_a_very_long_shot"
	res := Match([]string{exp}, []File{{Stem: truncated, Path: "/t"}})
	if !reflect.DeepEqual(res.Matches[exp], []string{"/t"}) {
		t.Errorf("matches = %v", res.Matches)
	}
}

func TestMatchPrefixFloor(t *testing.T) {
	res := Match([]string{"abcdefghij"}, []File{{Stem: "abcde", Path: "/short"}})
	if len(res.Matches) != 0 {
		t.Errorf("matches = %v, want none below the length floor", res.Matches)
	}
	if !reflect.DeepEqual(res.Unmatched, []string{"abcde"}) {
		t.Errorf("unmatched = %v", res.Unmatched)
	}
}

func TestMatchPrefixPicksGreatestOverlap(t *testing.T) {
	exp := "chorus_01_dancers_in_the_rain_wide"
	files := []File{
		{Stem: "chorus_01_dancers_in", Path: "/short"},
		{Stem: "chorus_01_dancers_in_the_rain", Path: "/long"},
	}
	res := Match([]string{exp}, files)
	if !reflect.DeepEqual(res.Matches[exp], []string{"/long"}) {
		t.Errorf("matches = %v, want the longer overlap", res.Matches)
	}
}

func TestMatchReportsBothDirections(t *testing.T) {
	res := Match(
		[]string{"intro_01_wide_shot", "intro_02_closeup"},
		[]File{{Stem: "intro_01_wide_shot", Path: "/a"}, {Stem: "Stray_Render", Path: "/s"}},
	)
	if len(res.Matches) != 1 {
		t.Errorf("matches = %v", res.Matches)
	}
	if !reflect.DeepEqual(res.Unmatched, []string{"stray_render"}) {
		t.Errorf("unmatched = %v", res.Unmatched)
	}
}

func TestPlanAndAssignments(t *testing.T) {
	p := &project.Project{
		Sections: []*project.Section{{
			ID:   "sec1",
			Name: "Verse",
			Shots: []*project.Shot{
				{ID: "sh1", Name: "Wide", Type: project.TypeSolo},
				{ID: "sh2", Name: "Pan", Type: project.TypeMulti, Takes: []*project.Take{
					{ID: "tk1", Label: "Take 1"},
					{ID: "tk2", Label: "Take 2"},
				}},
			},
		}},
	}

	plan := Plan(p)
	wantStems := []string{"verse_01_wide", "verse_02_pan_take_1", "verse_02_pan_take_2"}
	if !reflect.DeepEqual(Stems(plan), wantStems) {
		t.Fatalf("stems = %v", Stems(plan))
	}
	if plan[1].TakeID != "tk1" || plan[2].TakeID != "tk2" {
		t.Errorf("take ids = %q, %q", plan[1].TakeID, plan[2].TakeID)
	}

	res := Match(Stems(plan), []File{
		{Stem: "verse_02_pan_take_2", Path: "/t2"},
		{Stem: "verse_01_wide", Path: "/w"},
	})
	got := Assignments(plan, res.Matches)
	want := []project.Assignment{
		{SectionID: "sec1", ShotID: "sh1", Path: "/w"},
		{SectionID: "sec1", ShotID: "sh2", TakeID: "tk2", Path: "/t2"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("assignments = %+v", got)
	}
}
