package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestRunBulkIsolatesFailures(t *testing.T) {
	items := []string{"a", "b", "c", "d"}
	result := RunBulk(context.Background(), items,
		func(s string) string { return s },
		func(_ context.Context, s string) (string, error) {
			if s == "b" || s == "d" {
				return "", fmt.Errorf("item %s broke", s)
			}
			return s + "-done", nil
		})

	if result.SuccessCount != 2 || result.FailureCount != 2 {
		t.Fatalf("counts = %d ok / %d failed, want 2 / 2", result.SuccessCount, result.FailureCount)
	}
	if len(result.Succeeded) != 2 || result.Succeeded[0] != "a-done" || result.Succeeded[1] != "c-done" {
		t.Errorf("Succeeded = %v, want [a-done c-done]", result.Succeeded)
	}
	if result.Failed[0].Index != 1 || result.Failed[0].ID != "b" {
		t.Errorf("first failure = %+v, want index 1 id b", result.Failed[0])
	}
	if result.Failed[1].Index != 3 || result.Failed[1].ID != "d" {
		t.Errorf("second failure = %+v, want index 3 id d", result.Failed[1])
	}
}

func TestRunBulkProcessesInOrder(t *testing.T) {
	var seen []int
	items := []int{1, 2, 3}
	RunBulk(context.Background(), items,
		func(i int) string { return fmt.Sprint(i) },
		func(_ context.Context, i int) (int, error) {
			seen = append(seen, i)
			return i, nil
		})

	for i, v := range seen {
		if v != items[i] {
			t.Fatalf("processing order = %v, want %v", seen, items)
		}
	}
}

func TestRunBulkContinuesAfterEveryFailure(t *testing.T) {
	calls := 0
	result := RunBulk(context.Background(), []string{"x", "y", "z"},
		func(s string) string { return s },
		func(_ context.Context, _ string) (struct{}, error) {
			calls++
			return struct{}{}, errors.New("always fails")
		})

	if calls != 3 {
		t.Errorf("calls = %d, want 3 despite failures", calls)
	}
	if result.FailureCount != 3 || result.SuccessCount != 0 {
		t.Errorf("counts = %d ok / %d failed, want 0 / 3", result.SuccessCount, result.FailureCount)
	}
}

func TestRunBulkEmptyInput(t *testing.T) {
	result := RunBulk(context.Background(), nil,
		func(s string) string { return s },
		func(_ context.Context, s string) (string, error) { return s, nil })

	if result.SuccessCount != 0 || result.FailureCount != 0 {
		t.Errorf("empty batch should produce zero counts, got %+v", result)
	}
	if result.Succeeded == nil || result.Failed == nil {
		t.Error("result slices should be empty, not nil")
	}
}
