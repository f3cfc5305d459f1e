package analysis

import "testing"

func TestResolverNamedImports(t *testing.T) {
	file := parseFile(t, "a.ts", `
import { signal, computed, effect, batch, useSignals } from "@preact/signals-react";
`)
	r := NewResolver(nil)
	r.Collect(file.Root(), file.Source)

	cases := map[string]Role{
		"signal":     RoleSignal,
		"computed":   RoleDerived,
		"effect":     RoleEffect,
		"batch":      RoleBatch,
		"useSignals": RoleHook,
	}
	for name, want := range cases {
		if got := r.RoleOf(name); got != want {
			t.Errorf("RoleOf(%s) = %v, want %v", name, got, want)
		}
	}
	if !r.HasImportEvidence() {
		t.Error("expected import evidence")
	}
}

func TestResolverAliasedImport(t *testing.T) {
	file := parseFile(t, "a.ts", `
import { signal as createSignal } from "@preact/signals";
`)
	r := NewResolver(nil)
	r.Collect(file.Root(), file.Source)

	if r.RoleOf("createSignal") != RoleSignal {
		t.Error("the local alias must be registered")
	}
	// Never the imported name when they differ.
	if r.RoleOf("signal") != RoleNone {
		t.Error("the exported name must not be registered for an aliased import")
	}
}

func TestResolverNamespaceImport(t *testing.T) {
	file := parseFile(t, "a.ts", `
import * as signals from "@preact/signals-core";
`)
	r := NewResolver(nil)
	r.Collect(file.Root(), file.Source)

	if r.NamespaceRole("signals", "signal") != RoleSignal {
		t.Error("namespace member access should resolve against recognized exports")
	}
	if r.NamespaceRole("signals", "unknownExport") != RoleNone {
		t.Error("unrecognized members resolve to no role")
	}
	if r.NamespaceRole("other", "signal") != RoleNone {
		t.Error("unregistered aliases resolve to no role")
	}
}

func TestResolverIgnoresUnknownModules(t *testing.T) {
	file := parseFile(t, "a.ts", `
import { signal } from "some-other-library";
`)
	r := NewResolver(nil)
	r.Collect(file.Root(), file.Source)

	if r.RoleOf("signal") != RoleNone {
		t.Error("modules off the allow-list are silently ignored")
	}
	if r.HasImportEvidence() {
		t.Error("no evidence should be recorded")
	}
}

func TestResolverCalleeRole(t *testing.T) {
	file := parseFile(t, "a.ts", `
import { signal } from "@preact/signals";
import * as s from "@preact/signals";
const a = signal(1);
const b = s.signal(2);
`)
	r := NewResolver(nil)
	r.Collect(file.Root(), file.Source)

	calls := findNodes(file.Root(), "call_expression")
	if len(calls) != 2 {
		t.Fatalf("expected 2 calls, got %d", len(calls))
	}
	for i, call := range calls {
		if got := r.CalleeRole(call.ChildByFieldName("function"), file.Source); got != RoleSignal {
			t.Errorf("call %d: CalleeRole = %v, want RoleSignal", i, got)
		}
	}
}

func TestResolverLocalNameFor(t *testing.T) {
	file := parseFile(t, "a.ts", `
import { batch as group, useSignals } from "@preact/signals-react";
`)
	r := NewResolver(nil)
	r.Collect(file.Root(), file.Source)

	if got := r.LocalNameFor(RoleBatch); got != "group" {
		t.Errorf("LocalNameFor(RoleBatch) = %q, want group", got)
	}
	if got := r.LocalNameFor(RoleHook); got != "useSignals" {
		t.Errorf("LocalNameFor(RoleHook) = %q, want useSignals", got)
	}
	if got := r.LocalNameFor(RoleEffect); got != "" {
		t.Errorf("LocalNameFor(RoleEffect) = %q, want empty", got)
	}
}
