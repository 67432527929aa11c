package data_test

import (
	"reflect"
	"testing"

	"github.com/arcwake/wake/data"
)

func TestMessageAccessorsByVariant(t *testing.T) {
	d := data.FromRecordSet([]int{1, 2, 3})
	if !d.IsPresent() || d.IsEndOfStream() || d.IsSignal() {
		t.Fatalf("data message variant flags wrong: %+v", d)
	}

	eof := data.EOF[int]()
	if eof.IsPresent() || !eof.IsEndOfStream() || eof.IsSignal() {
		t.Fatalf("eof message variant flags wrong: %+v", eof)
	}

	stop := data.Stop[int]()
	if stop.IsPresent() || stop.IsEndOfStream() || !stop.IsSignal() {
		t.Fatalf("stop message variant flags wrong: %+v", stop)
	}
	if stop.SignalValue() != data.SignalStop {
		t.Errorf("stop signal value = %v, want SignalStop", stop.SignalValue())
	}
}

func TestDataBlockAccessorPanicsOnNonDataPayload(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected DataBlock() to panic on an EndOfStream message")
		}
	}()
	data.EOF[int]().DataBlock()
}

func TestBlockMetadataIsCopiedNotAliased(t *testing.T) {
	meta := map[string]string{data.MetaSchema: "s1"}
	b := data.NewBlock([]int{1}, meta)
	meta["injected"] = "late"
	if _, ok := b.Meta("injected"); ok {
		t.Fatal("block metadata must be copied at construction, not aliased to the caller's map")
	}
}

func TestBlockKindDefaultsToAppendWhenUnset(t *testing.T) {
	b := data.FromRecords([]int{1})
	if b.Kind() != data.BlockAppend {
		t.Errorf("Kind() = %v, want BlockAppend (da) default", b.Kind())
	}
}

func TestWithKindDoesNotMutateOriginalBlock(t *testing.T) {
	orig := data.FromRecords([]int{1, 2})
	modified := orig.WithKind(data.BlockModification)

	if orig.Kind() != data.BlockAppend {
		t.Errorf("original block's kind changed to %v", orig.Kind())
	}
	if modified.Kind() != data.BlockModification {
		t.Errorf("WithKind result kind = %v, want dm", modified.Kind())
	}
	if !reflect.DeepEqual(orig.Records(), modified.Records()) {
		t.Errorf("WithKind must share records, got %v vs %v", orig.Records(), modified.Records())
	}
}

func TestTableVStackPreservesOrder(t *testing.T) {
	a := data.NewTable(data.Row{"x": 1}, data.Row{"x": 2})
	b := data.NewTable(data.Row{"x": 3})
	got := a.VStack(b)
	want := []int{1, 2, 3}
	for i, r := range got.Rows {
		if r["x"] != want[i] {
			t.Fatalf("row %d = %v, want x=%d", i, r, want[i])
		}
	}
}

func TestTableProjectKeepsOnlyNamedColumns(t *testing.T) {
	tbl := data.NewTable(data.Row{"a": 1, "b": 2, "c": 3})
	got := tbl.Project("a", "c")
	if len(got.Rows[0]) != 2 {
		t.Fatalf("projected row has %d columns, want 2: %v", len(got.Rows[0]), got.Rows[0])
	}
	if _, ok := got.Rows[0]["b"]; ok {
		t.Fatalf("projected row retained column b: %v", got.Rows[0])
	}
}

func TestTableFilterPreservesOrder(t *testing.T) {
	tbl := data.NewTable(data.Row{"n": 1}, data.Row{"n": 2}, data.Row{"n": 3}, data.Row{"n": 4})
	got := tbl.Filter(func(r data.Row) bool { return r["n"].(int)%2 == 0 })
	if len(got.Rows) != 2 || got.Rows[0]["n"] != 2 || got.Rows[1]["n"] != 4 {
		t.Fatalf("filter result = %v, want rows with n=2,4", got.Rows)
	}
}

func TestTableSortByIsStableOnTies(t *testing.T) {
	tbl := data.NewTable(
		data.Row{"k": "a", "seq": 1},
		data.Row{"k": "a", "seq": 2},
		data.Row{"k": "b", "seq": 3},
	)
	got := tbl.SortBy("k")
	if got.Rows[0]["seq"] != 1 || got.Rows[1]["seq"] != 2 || got.Rows[2]["seq"] != 3 {
		t.Fatalf("stable sort broke tie order: %v", got.Rows)
	}
}

func TestGroupByAggregateComputesAllFiveFunctions(t *testing.T) {
	tbl := data.NewTable(
		data.Row{"region": "EU", "amount": 10.0},
		data.Row{"region": "EU", "amount": 30.0},
		data.Row{"region": "US", "amount": 5.0},
	)
	aggs := []data.Aggregation{
		{Func: data.AggSum, Column: "amount", Alias: "sum"},
		{Func: data.AggCount, Column: "amount", Alias: "count"},
		{Func: data.AggMean, Column: "amount", Alias: "mean"},
		{Func: data.AggMin, Column: "amount", Alias: "min"},
		{Func: data.AggMax, Column: "amount", Alias: "max"},
	}
	got := tbl.GroupByAggregate([]string{"region"}, aggs)
	if got.Len() != 2 {
		t.Fatalf("got %d groups, want 2", got.Len())
	}
	eu := got.Rows[0]
	if eu["region"] != "EU" {
		t.Fatalf("first group = %v, want region EU (first-seen order)", eu)
	}
	if eu["sum"] != 40.0 || eu["count"] != 2 || eu["mean"] != 20.0 || eu["min"] != 10.0 || eu["max"] != 30.0 {
		t.Fatalf("EU aggregates = %+v, want sum=40 count=2 mean=20 min=10 max=30", eu)
	}
}
