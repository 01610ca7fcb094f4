package validation_test

import (
	"testing"

	"github.com/armature-go/armature/framework/http/validation"
)

// ── helpers ──────────────────────────────────────────────────────────────────

func pass(t *testing.T, label string, data map[string]string, rules validation.Rules) {
	t.Helper()
	t.Run(label, func(t *testing.T) {
		v := validation.Make(data, rules)
		if v.Fails() {
			t.Errorf("expected PASS, got FAIL: %+v", v.Errors().Bag)
		}
	})
}

func fail(t *testing.T, label, field string, data map[string]string, rules validation.Rules) {
	t.Helper()
	t.Run(label, func(t *testing.T) {
		v := validation.Make(data, rules)
		if v.Passes() {
			t.Errorf("expected FAIL on field %q, but validator passed", field)
		}
		if v.Errors().First(field) == "" {
			t.Errorf("expected error on field %q, got: %+v", field, v.Errors().Bag)
		}
	})
}

// ── presence ─────────────────────────────────────────────────────────────────

func TestValidation_Required(t *testing.T) {
	r := validation.Rules{"name": "required"}

	pass(t, "non-empty value", map[string]string{"name": "Alice"}, r)
	fail(t, "empty string", "name", map[string]string{"name": ""}, r)
	fail(t, "whitespace only", "name", map[string]string{"name": "   "}, r)
	fail(t, "missing key", "name", map[string]string{}, r)
}

func TestValidation_Required_MessageFormat(t *testing.T) {
	v := validation.Make(map[string]string{"name": ""}, validation.Rules{"name": "required"})
	_ = v.Fails()
	if got, want := v.Errors().First("name"), "The name field is required."; got != want {
		t.Errorf("message: got %q want %q", got, want)
	}
}

func TestValidation_Sometimes_SkipsAbsentField(t *testing.T) {
	r := validation.Rules{"nickname": "sometimes|min:3"}

	pass(t, "field absent", map[string]string{}, r)
	pass(t, "field valid", map[string]string{"nickname": "bob42"}, r)
	fail(t, "field present but invalid", "nickname", map[string]string{"nickname": "ab"}, r)
}

// ── formats ──────────────────────────────────────────────────────────────────

func TestValidation_Email(t *testing.T) {
	r := validation.Rules{"email": "required|email"}

	pass(t, "valid address", map[string]string{"email": "alice@example.com"}, r)
	fail(t, "missing at sign", "email", map[string]string{"email": "alice.example.com"}, r)
	fail(t, "empty string", "email", map[string]string{"email": ""}, r)
}

func TestValidation_URL(t *testing.T) {
	r := validation.Rules{"homepage": "url"}

	pass(t, "https", map[string]string{"homepage": "https://example.com/about"}, r)
	pass(t, "http", map[string]string{"homepage": "http://example.com"}, r)
	fail(t, "no scheme", "homepage", map[string]string{"homepage": "example.com"}, r)
	fail(t, "ftp scheme", "homepage", map[string]string{"homepage": "ftp://example.com"}, r)
}

func TestValidation_UUID(t *testing.T) {
	r := validation.Rules{"id": "required|uuid"}

	pass(t, "canonical form", map[string]string{"id": "8c5b1515-4c24-4f0b-9dcd-0a43e9a1e2ab"}, r)
	fail(t, "not a uuid", "id", map[string]string{"id": "user-42"}, r)
	fail(t, "truncated", "id", map[string]string{"id": "8c5b1515-4c24"}, r)
}

// ── numbers & types ──────────────────────────────────────────────────────────

func TestValidation_NumericInteger(t *testing.T) {
	pass(t, "float is numeric", map[string]string{"price": "19.99"}, validation.Rules{"price": "numeric"})
	fail(t, "float is not integer", "count", map[string]string{"count": "19.99"}, validation.Rules{"count": "integer"})
	pass(t, "int is integer", map[string]string{"count": "42"}, validation.Rules{"count": "integer"})
	fail(t, "word is not numeric", "price", map[string]string{"price": "ten"}, validation.Rules{"price": "numeric"})
}

func TestValidation_Boolean(t *testing.T) {
	r := validation.Rules{"active": "boolean"}

	for _, v := range []string{"true", "false", "1", "0", "yes", "NO"} {
		pass(t, "literal "+v, map[string]string{"active": v}, r)
	}
	fail(t, "arbitrary word", "active", map[string]string{"active": "maybe"}, r)
}

// ── lengths ──────────────────────────────────────────────────────────────────

func TestValidation_MinMaxBetween(t *testing.T) {
	pass(t, "min boundary", map[string]string{"name": "ab"}, validation.Rules{"name": "min:2"})
	fail(t, "below min", "name", map[string]string{"name": "a"}, validation.Rules{"name": "min:2"})
	fail(t, "above max", "name", map[string]string{"name": "abcdef"}, validation.Rules{"name": "max:5"})
	pass(t, "in between", map[string]string{"name": "abcd"}, validation.Rules{"name": "between:2,5"})
	fail(t, "outside between", "name", map[string]string{"name": "abcdefgh"}, validation.Rules{"name": "between:2,5"})
}

func TestValidation_MinCountsRunesNotBytes(t *testing.T) {
	pass(t, "multibyte runes", map[string]string{"name": "héllo"}, validation.Rules{"name": "min:5|max:5"})
}

// ── sets & comparisons ───────────────────────────────────────────────────────

func TestValidation_In(t *testing.T) {
	r := validation.Rules{"role": "in:admin,editor,viewer"}

	pass(t, "allowed value", map[string]string{"role": "editor"}, r)
	fail(t, "disallowed value", "role", map[string]string{"role": "root"}, r)
}

func TestValidation_Confirmed(t *testing.T) {
	r := validation.Rules{"password": "required|confirmed"}

	pass(t, "matching confirmation",
		map[string]string{"password": "s3cret", "password_confirmation": "s3cret"}, r)
	fail(t, "mismatched confirmation", "password",
		map[string]string{"password": "s3cret", "password_confirmation": "other"}, r)
}

func TestValidation_AlphaNumAndRegex(t *testing.T) {
	pass(t, "alphanumeric", map[string]string{"slug": "abc123"}, validation.Rules{"slug": "alpha_num"})
	fail(t, "has dash", "slug", map[string]string{"slug": "abc-123"}, validation.Rules{"slug": "alpha_num"})
	pass(t, "matching regex", map[string]string{"code": "AB-1234"}, validation.Rules{"code": `regex:^[A-Z]{2}-\d{4}$`})
	fail(t, "non-matching regex", "code", map[string]string{"code": "ab-1234"}, validation.Rules{"code": `regex:^[A-Z]{2}-\d{4}$`})
}

// ── error bag / bail ─────────────────────────────────────────────────────────

func TestValidation_BailsOnFirstFailurePerField(t *testing.T) {
	v := validation.Make(
		map[string]string{"email": ""},
		validation.Rules{"email": "required|email|min:5"},
	)
	_ = v.Fails()

	if got := len(v.Errors().Bag["email"]); got != 1 {
		t.Errorf("expected 1 error after bail, got %d: %+v", got, v.Errors().Bag["email"])
	}
}

func TestValidation_ErrorsAccumulateAcrossFields(t *testing.T) {
	v := validation.Make(
		map[string]string{"name": "", "email": "not-an-email"},
		validation.Rules{"name": "required", "email": "email"},
	)
	if v.Passes() {
		t.Fatal("expected validation to fail")
	}
	if len(v.Errors().Bag) != 2 {
		t.Errorf("expected errors on 2 fields, got %+v", v.Errors().Bag)
	}
}
