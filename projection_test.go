package constmodel

import (
	"errors"
	"reflect"
	"testing"
)

func TestValues_DefaultFields(t *testing.T) {
	animals, _ := animalSet(t)

	rows, err := animals.All().Values()
	if err != nil {
		t.Fatalf("Values: %v", err)
	}
	want := []map[string]any{
		{"name": "Dog", "flies": false},
		{"name": "Bird", "flies": true},
		{"name": "Eagle", "flies": true},
	}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("Values() = %v, want %v", rows, want)
	}
}

func TestValues_SubsetOmitsAbsentFields(t *testing.T) {
	obj, _, _ := catalog(t)

	rows, err := obj.All().Values("code", "continent")
	if err != nil {
		t.Fatalf("Values: %v", err)
	}
	// Object and Thing members have no continent: the field is omitted.
	// continent is still a valid request because Place declares it.
	if got := rows[0]; !reflect.DeepEqual(got, map[string]any{"code": "war"}) {
		t.Errorf("rows[0] = %v, want code only", got)
	}
	if got := rows[4]; !reflect.DeepEqual(got, map[string]any{"code": "jerusalem", "continent": "Asia"}) {
		t.Errorf("rows[4] = %v", got)
	}
}

func TestValues_NullPlaceholderPolicy(t *testing.T) {
	obj := mustModel(t, "Object",
		Fields("id", "name"),
		WithPlaceholder(PlaceholderNull),
		Declare("WAR", 1, "War"),
	)
	mustModel(t, "Place",
		Extends(obj),
		Fields("id", "name", "continent"),
		Declare("PARIS", 2, "Paris", "Europe"),
	)

	rows, err := obj.All().Values("name", "continent")
	if err != nil {
		t.Fatalf("Values: %v", err)
	}
	want := []map[string]any{
		{"name": "War", "continent": nil},
		{"name": "Paris", "continent": "Europe"},
	}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("Values() = %v, want %v", rows, want)
	}
}

func TestValues_MemberNamePseudoField(t *testing.T) {
	animals, _ := animalSet(t)

	rows, err := animals.All().Values(FieldMemberName, "name")
	if err != nil {
		t.Fatalf("Values: %v", err)
	}
	if rows[0][FieldMemberName] != "DOG" {
		t.Errorf("rows[0] = %v", rows[0])
	}
}

func TestValues_InvalidField(t *testing.T) {
	animals, _ := animalSet(t)

	_, err := animals.All().Values("name", "wingspan")
	if !errors.Is(err, ErrInvalidField) {
		t.Fatalf("err = %v, want ErrInvalidField", err)
	}
}

func TestValuesList_NilPlaceholderKeepsArity(t *testing.T) {
	obj, _, _ := catalog(t)

	rows, err := obj.All().ValuesList("code", "continent")
	if err != nil {
		t.Fatalf("ValuesList: %v", err)
	}
	if got, want := rows[0], []any{"war", nil}; !reflect.DeepEqual(got, want) {
		t.Errorf("rows[0] = %v, want %v", got, want)
	}
	if got, want := rows[5], []any{"geneva", "Europe"}; !reflect.DeepEqual(got, want) {
		t.Errorf("rows[5] = %v, want %v", got, want)
	}
}

func TestFlat(t *testing.T) {
	animals, _ := animalSet(t)

	names, err := animals.All().Flat("name")
	if err != nil {
		t.Fatalf("Flat: %v", err)
	}
	if want := []any{"Dog", "Bird", "Eagle"}; !reflect.DeepEqual(names, want) {
		t.Errorf("Flat(name) = %v, want %v", names, want)
	}
}

func TestFlat_KeepsFalsyOmitsAbsent(t *testing.T) {
	obj, _, _ := catalog(t)

	flat, err := obj.All().Flat("is_organic")
	if err != nil {
		t.Fatalf("Flat: %v", err)
	}
	// Only Thing members carry is_organic; false values survive.
	if want := []any{false, true, false, true}; !reflect.DeepEqual(flat, want) {
		t.Errorf("Flat(is_organic) = %v, want %v", flat, want)
	}
}

func TestChoices_DefaultFirstTwoFields(t *testing.T) {
	_, place, _ := catalog(t)

	choices, err := place.Choices(nil)
	if err != nil {
		t.Fatalf("Choices: %v", err)
	}
	if len(choices) != 4 {
		t.Fatalf("len = %d, want 4", len(choices))
	}
	if choices[0] != (Choice{Value: 5, Display: "jerusalem"}) {
		t.Errorf("choices[0] = %v", choices[0])
	}
}

func TestChoices_SingleFieldDuplicated(t *testing.T) {
	animals, _ := animalSet(t)

	choices, err := animals.Choices(nil, "name")
	if err != nil {
		t.Fatalf("Choices: %v", err)
	}
	if choices[0] != (Choice{Value: "Dog", Display: "Dog"}) {
		t.Errorf("choices[0] = %v", choices[0])
	}
}

func TestChoices_ThreeFieldsIsUsageError(t *testing.T) {
	_, place, _ := catalog(t)

	_, err := place.Choices(nil, "code", "name", "continent")
	if !errors.Is(err, ErrInvalidField) {
		t.Fatalf("err = %v, want ErrInvalidField", err)
	}
}

func TestChoices_UnknownField(t *testing.T) {
	animals, _ := animalSet(t)

	_, err := animals.Choices(nil, "wingspan")
	if !errors.Is(err, ErrInvalidField) {
		t.Fatalf("err = %v, want ErrInvalidField", err)
	}
}

func TestChoices_WithCriteria(t *testing.T) {
	_, place, _ := catalog(t)

	choices, err := place.Choices(C{"continent": "Europe"}, "code", "name")
	if err != nil {
		t.Fatalf("Choices: %v", err)
	}
	if len(choices) != 3 {
		t.Fatalf("len = %d, want 3", len(choices))
	}
	if choices[0] != (Choice{Value: "geneva", Display: "Geneva"}) {
		t.Errorf("choices[0] = %v", choices[0])
	}
}
