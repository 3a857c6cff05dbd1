package shotlist

import (
	"strings"
	"testing"

	"github.com/shotplan/shotplan/internal/project"
)

const sampleDoc = "# Midnight Run Shotlist\n" +
	"Tempo: 128 BPM\n" +
	"\n" +
	"### ═══ VERSE 1 (0:13.04 – 0:39.11) ═══\n" +
	"*Neon alley, handheld energy*\n" +
	"\n" +
	"**Shot A1 — \"Rules First\"**\n" +
	"(0:13.04 – 0:16.50)\n" +
	"**Concept:** close on hands shuffling cards\n" +
	"**LTX-2 Prompt:**\n" +
	"```\n" +
	"FOO\n" +
	"```\n" +
	"**Ref Image Prompt:**\n" +
	"```\n" +
	"card table, top-down\n" +
	"```\n" +
	"\n" +
	"**Shot A2 — Whip Pan** ⚡ RAPID CUT\n" +
	"(0:16.50 – 0:20.00)\n" +
	"CUT 1 (0:16.50 – 0:18.00): A\n" +
	"CUT 2 (0:18.00 – 0:20.00): B\n" +
	"**Ref Image Prompt — Cut 1:**\n" +
	"```\n" +
	"first angle\n" +
	"```\n" +
	"\n" +
	"### === CHORUS (0:39.11 – 1:05.20) ===\n" +
	"\n" +
	"**Shot B1 — Wide**\n" +
	"(0:39.11 – 0:45.00)\n"

func TestParseSections(t *testing.T) {
	p := Parse(sampleDoc)

	if p.Name != "Midnight Run Shotlist" {
		t.Errorf("Name = %q", p.Name)
	}
	if p.BPM != 128 {
		t.Errorf("BPM = %d, want 128", p.BPM)
	}
	if len(p.Sections) != 2 {
		t.Fatalf("got %d sections, want 2", len(p.Sections))
	}

	verse := p.Sections[0]
	if verse.Name != "VERSE 1" {
		t.Errorf("section name = %q", verse.Name)
	}
	if verse.StartTime != 13.04 || verse.EndTime != 39.11 {
		t.Errorf("section range = %v – %v", verse.StartTime, verse.EndTime)
	}
	if verse.Description != "Neon alley, handheld energy" {
		t.Errorf("description = %q", verse.Description)
	}
	if p.Sections[1].Name != "CHORUS" {
		t.Errorf("ASCII banner section name = %q", p.Sections[1].Name)
	}
}

func TestParseShotFields(t *testing.T) {
	p := Parse(sampleDoc)
	sh := p.Sections[0].Shots[0]

	if sh.Name != "A1 — Rules First" {
		t.Errorf("name = %q", sh.Name)
	}
	if sh.Type != project.TypeSolo {
		t.Errorf("type = %q", sh.Type)
	}
	if sh.Lyric != "Rules First" {
		t.Errorf("lyric = %q", sh.Lyric)
	}
	if sh.Concept != "close on hands shuffling cards" {
		t.Errorf("concept = %q", sh.Concept)
	}
	if sh.Prompt != "FOO" {
		t.Errorf("prompt = %q, want code block content", sh.Prompt)
	}
	if sh.RefImagePrompt != "card table, top-down" {
		t.Errorf("refImagePrompt = %q", sh.RefImagePrompt)
	}
	if sh.StartTime != 13.04 || sh.EndTime != 16.5 {
		t.Errorf("shot range = %v – %v", sh.StartTime, sh.EndTime)
	}
}

func TestParseMultiShotTakes(t *testing.T) {
	p := Parse(sampleDoc)
	sh := p.Sections[0].Shots[1]

	if sh.Type != project.TypeMulti {
		t.Fatalf("type = %q, want multi", sh.Type)
	}
	if len(sh.Takes) != 2 {
		t.Fatalf("got %d takes, want 2", len(sh.Takes))
	}
	if sh.Takes[0].Label != "Take 1" || sh.Takes[1].Label != "Take 2" {
		t.Errorf("labels = %q, %q", sh.Takes[0].Label, sh.Takes[1].Label)
	}
	if sh.Takes[0].Concept != "A" || sh.Takes[1].Concept != "B" {
		t.Errorf("concepts = %q, %q", sh.Takes[0].Concept, sh.Takes[1].Concept)
	}
	if sh.Takes[0].RefImagePrompt != "first angle" {
		t.Errorf("take 1 refImagePrompt = %q", sh.Takes[0].RefImagePrompt)
	}
	if sh.Takes[1].RefImagePrompt != "" {
		t.Errorf("take 2 refImagePrompt = %q, want empty", sh.Takes[1].RefImagePrompt)
	}
}

func TestParseDegradesToEmpty(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty document", ""},
		{"prose only", "just some notes\nwith no structure at all\n"},
		{"heading only", "# A Title\n\nsome prose\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Parse(tt.content)
			if p == nil {
				t.Fatal("Parse returned nil")
			}
			if len(p.Sections) != 0 {
				t.Errorf("got %d sections, want 0", len(p.Sections))
			}
		})
	}
}

func TestParseDefaults(t *testing.T) {
	p := Parse("no heading, no bpm")
	if p.Name != "Untitled Project" {
		t.Errorf("Name = %q", p.Name)
	}
	if p.BPM != 120 {
		t.Errorf("BPM = %d, want 120", p.BPM)
	}
}

func TestParseMissingClosingFence(t *testing.T) {
	doc := "### ═══ A (0:00.00 – 0:10.00) ═══\n" +
		"**Shot X1 — Open**\n" +
		"**LTX-2 Prompt:**\n" +
		"```\n" +
		"never closed\n"
	p := Parse(doc)
	if got := p.Sections[0].Shots[0].Prompt; got != "" {
		t.Errorf("prompt = %q, want empty on unclosed fence", got)
	}
}

func TestParseCharacterDoc(t *testing.T) {
	doc := "# Character Bible\n" +
		"\n" +
		"## SHOT 1 — The Dealer\n" +
		"```\n" +
		"middle-aged dealer, green visor\n" +
		"```\n" +
		"\n" +
		"## SHOT 2 (full body) — The Runner\n" +
		"```\n" +
		"runner in a red jacket\n" +
		"```\n"

	shots := ParseCharacterDoc(doc)
	if len(shots) != 2 {
		t.Fatalf("got %d shots, want 2", len(shots))
	}
	if shots[0].Name != "Character 1 — The Dealer" {
		t.Errorf("name = %q", shots[0].Name)
	}
	if shots[0].Concept != "Character establishment: The Dealer" {
		t.Errorf("concept = %q", shots[0].Concept)
	}
	if shots[0].Type != project.TypeSolo {
		t.Errorf("type = %q", shots[0].Type)
	}
	if shots[0].RefImagePrompt != "middle-aged dealer, green visor" {
		t.Errorf("refImagePrompt = %q", shots[0].RefImagePrompt)
	}
	if shots[1].Name != "Character 2 — The Runner" {
		t.Errorf("name = %q", shots[1].Name)
	}
}

func TestParseAllPrependsCharacterSection(t *testing.T) {
	char := "# Character Bible\n\n## SHOT 1 — Hero\n```\nhero ref\n```\n"
	p := ParseAll(sampleDoc, char)

	if len(p.Sections) != 3 {
		t.Fatalf("got %d sections, want 3", len(p.Sections))
	}
	first := p.Sections[0]
	if first.Name != "CHARACTER BIBLE" {
		t.Errorf("character section name = %q", first.Name)
	}
	if !strings.Contains(first.Description, "character bible") {
		t.Errorf("description = %q", first.Description)
	}
	if len(first.Shots) != 1 {
		t.Errorf("got %d character shots", len(first.Shots))
	}
	if p.Sections[1].Name != "VERSE 1" {
		t.Errorf("shotlist sections not preserved after prepend")
	}
}

func TestParseAllSkipsEmptyCharacterDoc(t *testing.T) {
	p := ParseAll(sampleDoc, "# Nothing Here\nprose only\n")
	if len(p.Sections) != 2 {
		t.Errorf("got %d sections, want 2 (no synthetic section)", len(p.Sections))
	}
}
