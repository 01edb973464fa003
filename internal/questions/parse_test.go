package questions

import (
	"reflect"
	"testing"
)

func TestParseJSON(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
		ok   bool
	}{
		{name: "string array", raw: `["A?", " B? ", ""]`, want: []string{"A?", "B?"}, ok: true},
		{name: "fenced", raw: "```json\n[\"A?\", \"B?\"]\n```", want: []string{"A?", "B?"}, ok: true},
		{name: "objects", raw: `[{"text":"A?"},{"question":"B?"},{"question_text":"C?"},{"id":4}]`, want: []string{"A?", "B?", "C?"}, ok: true},
		{name: "wrapped", raw: `{"questions":["A?","B?"]}`, want: []string{"A?", "B?"}, ok: true},
		{name: "wrapped objects", raw: `{"questions":[{"question":"A?"}],"tags":["x"]}`, want: []string{"A?"}, ok: true},
		{name: "prose then array", raw: `Here you go: ["A?"]`, want: []string{"A?"}, ok: true},
		{name: "empty array", raw: `[]`, ok: false},
		{name: "object without questions", raw: `{"answer":"nope"}`, ok: false},
		{name: "plain text", raw: "1. A?\n2. B?", ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseJSON(tt.raw)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v (got %v)", ok, tt.ok, got)
			}
			if tt.ok && !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("ParseJSON = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseLines(t *testing.T) {
	raw := "Here are five questions:\n" +
		"1. How do you design a REST API?\n" +
		"2) What is a goroutine?\n" +
		"\n" +
		"- \"Explain database indexing.\"\n" +
		"Q4: How do you test concurrent code?\n" +
		"**5. Describe a 3-tier architecture you built.**\n" +
		"• Soru 6: Neden bu pozisyon?,\n"

	want := []string{
		"How do you design a REST API?",
		"What is a goroutine?",
		"Explain database indexing.",
		"How do you test concurrent code?",
		"Describe a 3-tier architecture you built.",
		"Neden bu pozisyon?",
	}
	if got := ParseLines(raw); !reflect.DeepEqual(got, want) {
		t.Fatalf("ParseLines =\n%q\nwant\n%q", got, want)
	}
}

func TestParseLinesDropsProseAroundNumberedList(t *testing.T) {
	raw := "Sure! Here are five questions tailored to the CV.\n" +
		"1. How did you scale Postgres?\n" +
		"2. What would you change in your last design?\n" +
		"3. How do you review code?\n" +
		"4. Tell us about a conflict in your team.\n" +
		"5. Why this role?\n" +
		"Good luck with the interview!"

	want := []string{
		"How did you scale Postgres?",
		"What would you change in your last design?",
		"How do you review code?",
		"Tell us about a conflict in your team.",
		"Why this role?",
	}
	if got := normalize(ParseLines(raw)); !reflect.DeepEqual(got, want) {
		t.Fatalf("normalize(ParseLines) =\n%q\nwant\n%q", got, want)
	}
}

func TestParseLinesKeepsUnmarkedLines(t *testing.T) {
	raw := "How do you design a REST API?\nWhat is a goroutine?"
	want := []string{"How do you design a REST API?", "What is a goroutine?"}
	if got := ParseLines(raw); !reflect.DeepEqual(got, want) {
		t.Fatalf("ParseLines = %q, want %q", got, want)
	}
}

func TestParseLinesSkipsBrackets(t *testing.T) {
	if got := ParseLines("```\n[\n]\n```"); len(got) != 0 {
		t.Fatalf("expected no lines, got %q", got)
	}
}

func TestNormalize(t *testing.T) {
	t.Run("truncates", func(t *testing.T) {
		got := normalize([]string{"a", "b", "c", "d", "e", "f", "g"})
		if !reflect.DeepEqual(got, []string{"a", "b", "c", "d", "e"}) {
			t.Fatalf("unexpected %v", got)
		}
	})
	t.Run("pads from templates", func(t *testing.T) {
		got := normalize([]string{"a", "b"})
		want := []string{"a", "b", templateQuestions[0], templateQuestions[1], templateQuestions[2]}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("unexpected %v", got)
		}
	})
	t.Run("skips duplicates", func(t *testing.T) {
		got := normalize([]string{"A", "a ", templateQuestions[0], "", "b"})
		want := []string{"A", templateQuestions[0], "b", templateQuestions[1], templateQuestions[2]}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("unexpected %v", got)
		}
	})
}

func TestTemplatesReturnsCopy(t *testing.T) {
	first := Templates()
	first[0] = "changed"
	if Templates()[0] == "changed" {
		t.Fatalf("Templates should return a copy")
	}
	if len(Templates()) != Count {
		t.Fatalf("expected %d templates", Count)
	}
}
