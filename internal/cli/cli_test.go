package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/babarot/wardbin/internal/config"
	"github.com/babarot/wardbin/internal/storage"
	"github.com/babarot/wardbin/internal/trash"
	"github.com/fatih/color"
)

func newTestCLI(t *testing.T, role string) (*CLI, *bytes.Buffer, storage.Store) {
	t.Helper()
	color.NoColor = true

	store := storage.NewMemoryStore()
	seed := map[string][]storage.Record{
		storage.KeyPatients: {
			{"id": "p1", "fullName": "Ahmed Ali", "department": "Cardiology", "age": 34},
			{"id": "p2", "fullName": "Layla Hassan", "department": "Oncology", "age": 51},
		},
		storage.KeyDepartments: {
			{"id": 4, "name": "Radiology", "beds": 12},
		},
	}
	for key, records := range seed {
		if err := store.Save(key, records); err != nil {
			t.Fatal(err)
		}
	}

	cfg := *config.NewDefaultConfig()
	cfg.Core.Storage.Backend = storage.BackendMemory
	cfg.Core.Actor = config.ActorConfig{Name: "Dr. Sara", Role: role}
	cfg.Core.Restore.Confirm = false
	cfg.Core.Purge.Confirm = false

	var out bytes.Buffer
	c := &CLI{
		config: cfg,
		runID:  "test",
		out:    &out,
		confirm: func(string, bool) bool {
			t.Fatal("unexpected confirmation prompt")
			return false
		},
	}
	c.attach(store)
	return c, &out, store
}

func TestPutAndList(t *testing.T) {
	c, out, store := newTestCLI(t, "doctor")

	c.option.Put.Kind = "patient"
	if err := c.Put([]string{"p1"}); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if !strings.Contains(out.String(), "moved to trash: Ahmed Ali (patient_p1)") {
		t.Errorf("unexpected put output %q", out.String())
	}

	patients, err := store.Load(storage.KeyPatients)
	if err != nil {
		t.Fatal(err)
	}
	if len(patients) != 1 || patients[0].String("id") != "p2" {
		t.Errorf("patient p1 should have left its collection: %v", patients)
	}

	out.Reset()
	c.option.List = ListCommand{Age: "all"}
	if err := c.List(); err != nil {
		t.Fatalf("List failed: %v", err)
	}
	for _, want := range []string{"patient_p1", "Patient", "Ahmed Ali", "Dr. Sara"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("list output misses %q:\n%s", want, out.String())
		}
	}
}

func TestPutReportsEveryFailure(t *testing.T) {
	c, _, _ := newTestCLI(t, "doctor")

	c.option.Put.Kind = "patient"
	err := c.Put([]string{"nope", "p1", "missing"})
	if err == nil || !strings.Contains(err.Error(), "2 errors occurred") {
		t.Errorf("expected two aggregated errors, got %v", err)
	}
}

func TestPutUnknownKind(t *testing.T) {
	c, _, _ := newTestCLI(t, "doctor")

	c.option.Put.Kind = "ward"
	if err := c.Put([]string{"p1"}); !trash.IsUnknownKind(err) {
		t.Errorf("expected unknown kind, got %v", err)
	}
}

func TestListJSON(t *testing.T) {
	c, out, _ := newTestCLI(t, "doctor")
	c.option.Put.Kind = "department"
	if err := c.Put([]string{"4"}); err != nil {
		t.Fatal(err)
	}

	out.Reset()
	c.option.List = ListCommand{Age: "today", Kinds: []string{"department"}, JSON: true}
	if err := c.List(); err != nil {
		t.Fatalf("List failed: %v", err)
	}

	var entries []trash.Entry
	if err := json.Unmarshal(out.Bytes(), &entries); err != nil {
		t.Fatalf("invalid json %q: %v", out.String(), err)
	}
	if len(entries) != 1 || entries[0].ID != "department_4" || entries[0].Kind != trash.KindDepartment {
		t.Errorf("unexpected entries %+v", entries)
	}
}

func TestRestore(t *testing.T) {
	c, out, store := newTestCLI(t, "doctor")
	c.option.Put.Kind = "patient"
	if err := c.Put([]string{"p1"}); err != nil {
		t.Fatal(err)
	}

	out.Reset()
	err := c.Restore([]string{"patient_p1", "patient_zzz"})
	if !errors.Is(err, trash.ErrNotFound) {
		t.Errorf("expected not found for the unknown id, got %v", err)
	}
	if !strings.Contains(out.String(), "1 of 2 record(s) restored") {
		t.Errorf("unexpected restore output %q", out.String())
	}

	patients, _ := store.Load(storage.KeyPatients)
	if len(patients) != 2 {
		t.Errorf("expected patient back in its collection, got %d records", len(patients))
	}
}

func TestRestoreAsksForConfirmation(t *testing.T) {
	c, out, _ := newTestCLI(t, "doctor")
	c.option.Put.Kind = "patient"
	if err := c.Put([]string{"p1"}); err != nil {
		t.Fatal(err)
	}

	c.config.Core.Restore.Confirm = true
	var asked string
	c.confirm = func(prompt string, strict bool) bool {
		asked = prompt
		return false
	}

	if err := c.Restore([]string{"patient_p1"}); err != nil {
		t.Fatal(err)
	}
	if asked == "" || !strings.Contains(out.String(), "Restore canceled.") {
		t.Errorf("expected a declined prompt, got %q / %q", asked, out.String())
	}
	if _, err := c.manager.Get("patient_p1"); err != nil {
		t.Errorf("entry should still be trashed: %v", err)
	}
}

func TestPurge(t *testing.T) {
	c, out, _ := newTestCLI(t, "doctor")
	c.option.Put.Kind = "patient"
	if err := c.Put([]string{"p1", "p2"}); err != nil {
		t.Fatal(err)
	}

	out.Reset()
	if err := c.Purge([]string{"patient_p1"}); err != nil {
		t.Fatalf("Purge failed: %v", err)
	}
	if _, err := c.manager.Get("patient_p1"); !trash.IsNotFound(err) {
		t.Errorf("expected purged entry to be gone, got %v", err)
	}
	if err := c.Purge([]string{"patient_p1"}); !trash.IsNotFound(err) {
		t.Errorf("second purge should report not found, got %v", err)
	}
}

func TestEmptyRequiresAdmin(t *testing.T) {
	c, _, _ := newTestCLI(t, "nurse")
	c.option.Put.Kind = "patient"
	if err := c.Put([]string{"p1"}); err != nil {
		t.Fatal(err)
	}

	if err := c.Empty(); !errors.Is(err, ErrAdminOnly) {
		t.Errorf("expected admin-only error, got %v", err)
	}
}

func TestEmpty(t *testing.T) {
	c, out, _ := newTestCLI(t, "admin")
	c.option.Put.Kind = "patient"
	if err := c.Put([]string{"p1", "p2"}); err != nil {
		t.Fatal(err)
	}

	c.config.Core.Purge.Confirm = true
	var strictPrompt bool
	c.confirm = func(_ string, strict bool) bool {
		strictPrompt = strict
		return true
	}

	out.Reset()
	if err := c.Empty(); err != nil {
		t.Fatalf("Empty failed: %v", err)
	}
	if !strictPrompt {
		t.Error("emptying the trash should use the strict prompt")
	}
	if !strings.Contains(out.String(), "2 record(s) permanently deleted") {
		t.Errorf("unexpected output %q", out.String())
	}

	out.Reset()
	if err := c.Empty(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "already empty") {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestPruneArguments(t *testing.T) {
	c, out, _ := newTestCLI(t, "doctor")

	if err := c.Prune(nil); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected invalid argument, got %v", err)
	}
	if err := c.Prune([]string{"soon"}); err == nil {
		t.Error("expected an error for an unparsable duration")
	}
	if err := c.Prune([]string{"0d"}); err == nil {
		t.Error("expected an error for a zero duration")
	}

	c.option.Put.Kind = "patient"
	if err := c.Put([]string{"p1"}); err != nil {
		t.Fatal(err)
	}
	out.Reset()
	if err := c.Prune([]string{"30", "days"}); err != nil {
		t.Fatalf("Prune failed: %v", err)
	}
	if !strings.Contains(out.String(), "Nothing to prune.") {
		t.Errorf("fresh entries must survive, got %q", out.String())
	}
}

func TestStats(t *testing.T) {
	c, out, _ := newTestCLI(t, "doctor")
	c.option.Put.Kind = "patient"
	if err := c.Put([]string{"p1"}); err != nil {
		t.Fatal(err)
	}

	rows, err := c.collectStats()
	if err != nil {
		t.Fatalf("collectStats failed: %v", err)
	}
	got := map[trash.Kind][2]int{}
	for _, r := range rows {
		got[r.kind] = [2]int{r.active, r.trashed}
	}
	if got[trash.KindPatient] != [2]int{1, 1} {
		t.Errorf("unexpected patient stats %v", got[trash.KindPatient])
	}
	if got[trash.KindDepartment] != [2]int{1, 0} {
		t.Errorf("unexpected department stats %v", got[trash.KindDepartment])
	}

	out.Reset()
	if err := c.Stats(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Patient") || !strings.Contains(out.String(), "Total") {
		t.Errorf("unexpected stats output:\n%s", out.String())
	}
}

func TestLogShowsActivity(t *testing.T) {
	c, out, _ := newTestCLI(t, "doctor")
	c.option.Put.Kind = "patient"
	if err := c.Put([]string{"p1"}); err != nil {
		t.Fatal(err)
	}
	if err := c.Restore([]string{"patient_p1"}); err != nil {
		t.Fatal(err)
	}

	out.Reset()
	c.option.Log.Limit = 1
	if err := c.Log(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "restore") || strings.Contains(out.String(), "move_to_trash") {
		t.Errorf("expected only the latest activity:\n%s", out.String())
	}
}

func TestShow(t *testing.T) {
	c, out, _ := newTestCLI(t, "doctor")
	c.option.Put.Kind = "patient"
	if err := c.Put([]string{"p1"}); err != nil {
		t.Fatal(err)
	}

	out.Reset()
	if err := c.Show([]string{"patient_p1"}); err != nil {
		t.Fatalf("Show failed: %v", err)
	}
	for _, want := range []string{"patient_p1", "Ahmed Ali", "Cardiology"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("show output misses %q:\n%s", want, out.String())
		}
	}

	if err := c.Show(nil); err == nil {
		t.Error("expected an error without id")
	}
}

func TestRunDispatch(t *testing.T) {
	c, _, _ := newTestCLI(t, "doctor")
	if err := c.Run("bogus", nil); err == nil || !strings.Contains(err.Error(), "unknown command") {
		t.Errorf("expected unknown command, got %v", err)
	}
}

func TestFormatErrors(t *testing.T) {
	if formatErrors(nil) != nil {
		t.Error("expected nil for no errors")
	}
	single := errors.New("boom")
	if formatErrors([]error{single}) != single {
		t.Error("a single error should be returned as is")
	}
	err := formatErrors([]error{single, errors.New("bang")})
	if !strings.Contains(err.Error(), "2 errors occurred") {
		t.Errorf("unexpected message %q", err)
	}
}

func TestVersionPrint(t *testing.T) {
	out := Version{AppName: "wardbin", Version: "v1.2.3", Revision: "abc", BuildDate: "today"}.Print()
	for _, want := range []string{"wardbin", "version: v1.2.3", "revision: abc"} {
		if !strings.Contains(out, want) {
			t.Errorf("version output misses %q", want)
		}
	}
}
