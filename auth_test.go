package main

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestRejoinTokenRoundTrip(t *testing.T) {
	a := NewAuth(nil, "")
	token, err := a.IssueRejoinToken("p1", "#ff0000")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	pid, color, err := a.ValidateRejoinToken(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if pid != "p1" || color != "#ff0000" {
		t.Errorf("token bound (%q,%q), want (p1,#ff0000)", pid, color)
	}
}

func TestRejoinTokenRejectsGarbage(t *testing.T) {
	a := NewAuth(nil, "")
	if _, _, err := a.ValidateRejoinToken("not.a.token"); err == nil {
		t.Error("garbage token must fail validation")
	}
	if _, _, err := a.ValidateRejoinToken(""); err == nil {
		t.Error("empty token must fail validation")
	}
}

func TestRejoinTokenRejectsForeignSecret(t *testing.T) {
	a := NewAuth(nil, "")
	b := NewAuth(nil, "")
	token, err := a.IssueRejoinToken("p1", "#ff0000")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, _, err := b.ValidateRejoinToken(token); err == nil {
		t.Error("token signed under another secret must fail")
	}
}

func TestCheckAdmin(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	a := NewAuth(nil, string(hash))
	if !a.CheckAdmin("hunter2") {
		t.Error("correct password rejected")
	}
	if a.CheckAdmin("wrong") {
		t.Error("wrong password accepted")
	}
}

func TestCheckAdminDisabledWithoutHash(t *testing.T) {
	a := NewAuth(nil, "")
	if a.CheckAdmin("") || a.CheckAdmin("anything") {
		t.Error("debug commands must stay disabled with no hash configured")
	}
}

func TestSecretPersistsAcrossRestart(t *testing.T) {
	db, err := OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()

	a := NewAuth(db, "")
	token, err := a.IssueRejoinToken("p1", "#ff0000")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	// Same settings table, fresh Auth: the persisted secret must validate
	b := NewAuth(db, "")
	if _, _, err := b.ValidateRejoinToken(token); err != nil {
		t.Errorf("persisted secret should validate the token: %v", err)
	}
}
