package ch

import "testing"

func TestTopicValidation(t *testing.T) {
	valid := []string{"ingestion_events", "events", "_t1", "Events2"}
	for _, s := range valid {
		if !topicRE.MatchString(s) {
			t.Fatalf("topic %q rejected", s)
		}
	}
	invalid := []string{"", "1events", "ev-ents", "ev.ents", "ev;drop", "ev ents"}
	for _, s := range invalid {
		if topicRE.MatchString(s) {
			t.Fatalf("topic %q accepted", s)
		}
	}
}

func TestBuildClientInfo(t *testing.T) {
	ci := BuildClientInfo("", "api")
	if len(ci.Products) == 0 {
		t.Fatal("no products")
	}
	if ci.Products[0].Name != "riskgate" {
		t.Fatalf("product[0] = %q, want riskgate", ci.Products[0].Name)
	}
	if ci.Products[0].Version != "api" {
		t.Fatalf("role = %q, want api", ci.Products[0].Version)
	}
}
