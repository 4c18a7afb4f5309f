package model

import "testing"

func TestOrderStatusTransitions(t *testing.T) {
	all := []OrderStatus{OrderPending, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled}
	legal := map[OrderStatus]map[OrderStatus]bool{
		OrderPending:    {OrderProcessing: true, OrderCancelled: true},
		OrderProcessing: {OrderShipped: true},
		OrderShipped:    {OrderDelivered: true},
	}

	for _, from := range all {
		for _, to := range all {
			want := legal[from][to]
			if got := from.CanTransitionTo(to); got != want {
				t.Fatalf("%s -> %s: got %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestTerminalStatusesHaveNoExits(t *testing.T) {
	all := []OrderStatus{OrderPending, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled}
	for _, to := range all {
		if OrderDelivered.CanTransitionTo(to) {
			t.Fatalf("delivered must be terminal, allowed -> %s", to)
		}
		if OrderCancelled.CanTransitionTo(to) {
			t.Fatalf("cancelled must be terminal, allowed -> %s", to)
		}
	}
}

func TestValidOrderStatus(t *testing.T) {
	for _, s := range []string{"pending", "processing", "shipped", "delivered", "cancelled"} {
		if !ValidOrderStatus(s) {
			t.Fatalf("%q should be valid", s)
		}
	}
	for _, s := range []string{"", "PENDING", "refunded", "done"} {
		if ValidOrderStatus(s) {
			t.Fatalf("%q should be invalid", s)
		}
	}
}

func TestValidPaymentMethod(t *testing.T) {
	for _, m := range []string{"cash_on_delivery", "gcash", "card", "bank_transfer"} {
		if !ValidPaymentMethod(m) {
			t.Fatalf("%q should be valid", m)
		}
	}
	if ValidPaymentMethod("paypal") {
		t.Fatal("paypal should be invalid")
	}
}
