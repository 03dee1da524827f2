package sqlfield

import (
	"database/sql"
	"errors"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"

	"github.com/constkit/constmodel"
)

func moodModel(t *testing.T) *constmodel.Model {
	t.Helper()
	m, err := constmodel.New("Mood",
		constmodel.Fields("code", "name"),
		constmodel.Declare("WAR", "war", "War"),
		constmodel.Declare("PEACE", "peace", "Peace"),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return m
}

func levelModel(t *testing.T) *constmodel.Model {
	t.Helper()
	m, err := constmodel.New("Level",
		constmodel.Fields("id", "label"),
		constmodel.Declare("LOW", 1, "low"),
		constmodel.Declare("HIGH", 2, "high"),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return m
}

func TestString_Binding(t *testing.T) {
	f, err := String(moodModel(t))
	if err != nil {
		t.Fatalf("String: %v", err)
	}
	if f.valueField != "code" {
		t.Errorf("default value field = %q, want first declared field", f.valueField)
	}
}

func TestString_RejectsNonStringValues(t *testing.T) {
	_, err := String(levelModel(t)) // id is an int
	if !errors.Is(err, ErrBadBinding) {
		t.Fatalf("err = %v, want ErrBadBinding", err)
	}
}

func TestInt_RejectsNonIntValues(t *testing.T) {
	_, err := Int(moodModel(t)) // code is a string
	if !errors.Is(err, ErrBadBinding) {
		t.Fatalf("err = %v, want ErrBadBinding", err)
	}
}

func TestString_ValidatesSubmodelMembers(t *testing.T) {
	base := moodModel(t)
	if _, err := constmodel.New("OddMood",
		constmodel.Extends(base),
		constmodel.Declare("CHAOS", 13, "Chaos"), // code is an int here
	); err != nil {
		t.Fatalf("New: %v", err)
	}

	// The gained member fails validation on the ancestor binding.
	_, err := String(base)
	if !errors.Is(err, ErrBadBinding) {
		t.Fatalf("err = %v, want ErrBadBinding for propagated member", err)
	}
}

func TestInt_RejectsMixedIntWidths(t *testing.T) {
	m, err := constmodel.New("Mixed",
		constmodel.Fields("id", "label"),
		constmodel.Declare("NARROW", 1, "narrow"),
		constmodel.Declare("WIDE", int64(2), "wide"),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	_, err = Int(m, DisplayField("label"))
	if !errors.Is(err, ErrBadBinding) {
		t.Fatalf("err = %v, want ErrBadBinding for mixed int widths", err)
	}
}

func TestScan_Int64DeclaredModel(t *testing.T) {
	m, err := constmodel.New("Wide",
		constmodel.Fields("id", "label"),
		constmodel.Declare("LOW", int64(1), "low"),
		constmodel.Declare("HIGH", int64(2), "high"),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	f, err := Int(m, DisplayField("label"))
	if err != nil {
		t.Fatalf("Int: %v", err)
	}

	v := f.NewValue()
	if err := v.Scan(int64(2)); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if v.Member() == nil || v.Member().Name() != "HIGH" {
		t.Errorf("scanned member = %v, want HIGH", v.Member())
	}
}

func TestValidate_DisplayMustBeString(t *testing.T) {
	_, err := Int(levelModel(t), ValueField("id"), DisplayField("id"))
	if !errors.Is(err, ErrBadBinding) {
		t.Fatalf("err = %v, want ErrBadBinding for non-string display", err)
	}
}

func TestValue_WriteReadRoundTrip(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	moods := moodModel(t)
	f, err := String(moods)
	if err != nil {
		t.Fatalf("String: %v", err)
	}
	war, err := moods.Member("WAR")
	if err != nil {
		t.Fatalf("Member: %v", err)
	}

	mock.ExpectExec("INSERT INTO entries").
		WithArgs("war").
		WillReturnResult(sqlmock.NewResult(1, 1))
	if _, err := db.Exec("INSERT INTO entries (mood) VALUES (?)", f.Of(war)); err != nil {
		t.Fatalf("Exec: %v", err)
	}

	mock.ExpectQuery("SELECT mood FROM entries").
		WillReturnRows(sqlmock.NewRows([]string{"mood"}).AddRow("peace"))

	v := f.NewValue()
	if err := db.QueryRow("SELECT mood FROM entries WHERE id = 1").Scan(v); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if v.Member() == nil || v.Member().Name() != "PEACE" {
		t.Errorf("scanned member = %v, want PEACE", v.Member())
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestValue_IntRoundTrip(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	levels := levelModel(t)
	f, err := Int(levels, DisplayField("label"))
	if err != nil {
		t.Fatalf("Int: %v", err)
	}

	mock.ExpectQuery("SELECT level FROM alerts").
		WillReturnRows(sqlmock.NewRows([]string{"level"}).AddRow(int64(2)))

	v := f.NewValue()
	if err := db.QueryRow("SELECT level FROM alerts WHERE id = 1").Scan(v); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if v.Member() == nil || v.Member().Name() != "HIGH" {
		t.Errorf("scanned member = %v, want HIGH", v.Member())
	}
}

func TestScan_UnknownScalarRejected(t *testing.T) {
	moods := moodModel(t)
	f, err := String(moods)
	if err != nil {
		t.Fatalf("String: %v", err)
	}

	v := f.NewValue()
	if err := v.Scan("bliss"); !errors.Is(err, ErrUnknownScalar) {
		t.Fatalf("Scan err = %v, want ErrUnknownScalar", err)
	}
}

func TestScan_NullIsNilMember(t *testing.T) {
	moods := moodModel(t)
	f, err := String(moods)
	if err != nil {
		t.Fatalf("String: %v", err)
	}

	v := f.NewValue()
	if err := v.Scan(nil); err != nil {
		t.Fatalf("Scan(nil): %v", err)
	}
	if v.Member() != nil {
		t.Errorf("Member() = %v, want nil for SQL NULL", v.Member())
	}
}

func TestValue_NilMemberWritesNull(t *testing.T) {
	moods := moodModel(t)
	f, err := String(moods)
	if err != nil {
		t.Fatalf("String: %v", err)
	}

	dv, err := f.Of(nil).Value()
	if err != nil {
		t.Fatalf("Value: %v", err)
	}
	if dv != nil {
		t.Errorf("Value() = %v, want nil", dv)
	}
}

func TestChoices(t *testing.T) {
	moods := moodModel(t)
	f, err := String(moods, DisplayField("name"))
	if err != nil {
		t.Fatalf("String: %v", err)
	}

	choices, err := f.Choices()
	if err != nil {
		t.Fatalf("Choices: %v", err)
	}
	if len(choices) != 2 {
		t.Fatalf("len = %d, want 2", len(choices))
	}
	if choices[0] != (constmodel.Choice{Value: "war", Display: "War"}) {
		t.Errorf("choices[0] = %v", choices[0])
	}
}

var _ sql.Scanner = (*Value)(nil)
