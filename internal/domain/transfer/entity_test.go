// internal/domain/transfer/entity_test.go
package transfer

import "testing"

func TestNormalizeStatus(t *testing.T) {
	cases := []struct {
		raw        string
		want       Status
		recognized bool
	}{
		{"pending", StatusPending, true},
		{"approved", StatusApproved, true},
		{"shipped", StatusShipped, true},
		{"completed", StatusCompleted, true},
		{"cancelled", StatusCancelled, true},
		{"archived", StatusCancelled, false},
		{"", StatusCancelled, false},
		{"PENDING", StatusCancelled, false},
	}

	for _, tc := range cases {
		got, recognized := NormalizeStatus(tc.raw)
		if got != tc.want || recognized != tc.recognized {
			t.Errorf("NormalizeStatus(%q) = (%s, %v), want (%s, %v)",
				tc.raw, got, recognized, tc.want, tc.recognized)
		}
	}
}

func TestStatusTransitions(t *testing.T) {
	allowed := []struct{ from, to Status }{
		{StatusPending, StatusApproved},
		{StatusPending, StatusCancelled},
		{StatusApproved, StatusShipped},
		{StatusApproved, StatusCancelled},
		{StatusShipped, StatusCompleted},
	}
	for _, tc := range allowed {
		if !tc.from.CanTransitionTo(tc.to) {
			t.Errorf("expected %s -> %s to be allowed", tc.from, tc.to)
		}
	}

	forbidden := []struct{ from, to Status }{
		{StatusPending, StatusShipped},
		{StatusPending, StatusCompleted},
		{StatusApproved, StatusCompleted},
		{StatusShipped, StatusCancelled},
		{StatusCompleted, StatusPending},
		{StatusCompleted, StatusCancelled},
		{StatusCancelled, StatusApproved},
	}
	for _, tc := range forbidden {
		if tc.from.CanTransitionTo(tc.to) {
			t.Errorf("expected %s -> %s to be forbidden", tc.from, tc.to)
		}
	}
}

func TestStatusIsTerminal(t *testing.T) {
	for _, s := range []Status{StatusPending, StatusApproved, StatusShipped} {
		if s.IsTerminal() {
			t.Errorf("%s must not be terminal", s)
		}
	}
	for _, s := range []Status{StatusCompleted, StatusCancelled} {
		if !s.IsTerminal() {
			t.Errorf("%s must be terminal", s)
		}
	}
}

func TestPreviewShortage(t *testing.T) {
	preview := &Preview{
		Items: []ItemPreview{
			{Item: Item{ProductID: 1, ProductName: "Paracetamol"}, AllocatedQty: 10, MissingQty: 0},
			{Item: Item{ProductID: 2, ProductName: "Amoxicillin"}, AllocatedQty: 4, MissingQty: 6},
		},
	}

	if !preview.HasShortage() {
		t.Error("expected a shortage")
	}
	short := preview.ShortItems()
	if len(short) != 1 || short[0].ProductID != 2 {
		t.Errorf("expected only product 2 to be short, got %+v", short)
	}

	preview.Items[1].MissingQty = 0
	if preview.HasShortage() {
		t.Error("expected no shortage after full allocation")
	}
}
