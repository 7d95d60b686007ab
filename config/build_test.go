package config

import "testing"

func TestBuild_ResolvesNamedCollaborators(t *testing.T) {
	cfg := &Config{
		Materials: 1, Elements: 2, Qpts: 1, IsCPU: true,
		Collaborators: []MaterialCollaborators{{EOS: "identity", Surrogate: "identity"}},
	}
	ev, closer, err := Build(cfg, DefaultRegistries())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer closer.Close()
	if ev == nil {
		t.Fatal("expected a non-nil evaluator")
	}
}

func TestBuild_UnknownCollaboratorNameErrors(t *testing.T) {
	cfg := &Config{
		Materials: 1, Elements: 2, Qpts: 1,
		Collaborators: []MaterialCollaborators{{EOS: "not-a-real-evaluator"}},
	}
	if _, _, err := Build(cfg, DefaultRegistries()); err == nil {
		t.Fatal("expected an error for an unregistered collaborator name")
	}
}

func TestBuild_InvalidConfigErrorsBeforeConstruction(t *testing.T) {
	cfg := &Config{Materials: 0, Elements: 2, Qpts: 1}
	if _, _, err := Build(cfg, DefaultRegistries()); err == nil {
		t.Fatal("expected Build to reject an invalid config")
	}
}

func TestBuild_EnableDBWithoutStorePathFailsValidationFirst(t *testing.T) {
	cfg := &Config{Materials: 1, Elements: 1, Qpts: 1, EnableDB: true}
	if _, _, err := Build(cfg, DefaultRegistries()); err == nil {
		t.Fatal("expected Build to fail validation before touching the filesystem")
	}
}

func TestBuild_EnableDBOpensFileStore(t *testing.T) {
	path := t.TempDir() + "/store.txt"
	cfg := &Config{Materials: 1, Elements: 1, Qpts: 1, EnableDB: true, StorePath: path}
	_, closer, err := Build(cfg, DefaultRegistries())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if err := closer.Close(); err != nil {
		t.Errorf("closer.Close(): %v", err)
	}
}

func TestBuild_ZeroCollaboratorsLeavesEveryMaterialAbsent(t *testing.T) {
	cfg := &Config{Materials: 2, Elements: 1, Qpts: 1}
	ev, closer, err := Build(cfg, DefaultRegistries())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer closer.Close()
	if ev == nil {
		t.Fatal("expected a non-nil evaluator even with no collaborators registered")
	}
}
