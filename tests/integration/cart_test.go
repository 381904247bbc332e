//go:build integration

package integration

import (
	"net/http"
	"testing"
)

func TestListMenu(t *testing.T) {
	resp := doGet(t, "/api/menu")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	items := decodeJSON[[]menuItemResponse](t, resp)
	if len(items) != 8 {
		t.Fatalf("expected 8 menu items, got %d", len(items))
	}
	for _, it := range items {
		if !it.Active {
			t.Errorf("menu item %s not active", it.ID)
		}
	}
}

func TestCartLifecycle(t *testing.T) {
	cartID := newCart(t)

	// margherita 11.50 x2 + tiramisu 5.50 = 28.50
	addItem(t, cartID, "margherita")
	addItem(t, cartID, "margherita")
	cart := addItem(t, cartID, "tiramisu")

	if cart.Subtotal != "28.50" {
		t.Errorf("subtotal: got %s, want 28.50", cart.Subtotal)
	}
	if cart.Total != "28.50" {
		t.Errorf("total: got %s, want 28.50", cart.Total)
	}
	if cart.Variant != "none" {
		t.Errorf("variant: got %s, want none", cart.Variant)
	}
}

func TestCart_UnknownID(t *testing.T) {
	resp := doGet(t, "/api/carts/00000000-0000-0000-0000-000000000000")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestVoucher_ApplyAndCheckout(t *testing.T) {
	cartID := newCart(t)
	addItem(t, cartID, "margherita")
	addItem(t, cartID, "margherita") // 23.00

	// WELCOME10 is a seeded 10% voucher.
	resp := doPost(t, "/api/carts/"+cartID+"/voucher", map[string]string{"code": "WELCOME10"})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("apply voucher: expected 200, got %d", resp.StatusCode)
	}

	cart := decodeJSON[cartResponse](t, resp)
	if cart.Variant != "voucher" || cart.VoucherCode != "WELCOME10" {
		t.Fatalf("voucher not active: variant=%s code=%s", cart.Variant, cart.VoucherCode)
	}
	if cart.DiscountAmount != "2.30" || cart.Total != "20.70" {
		t.Errorf("pricing: discount=%s total=%s", cart.DiscountAmount, cart.Total)
	}

	usedBefore := voucherUsage(t, "WELCOME10")

	co := doPost(t, "/api/carts/"+cartID+"/checkout", nil)
	defer co.Body.Close()

	if co.StatusCode != http.StatusOK {
		t.Fatalf("checkout: expected 200, got %d", co.StatusCode)
	}

	order := decodeJSON[checkoutResponse](t, co)
	if !order.Persisted {
		t.Error("order not persisted")
	}
	if order.OrderID == "" || len(order.Token) != 8 {
		t.Errorf("identifiers: id=%q token=%q", order.OrderID, order.Token)
	}
	if order.Total != "20.70" {
		t.Errorf("order total: got %s, want 20.70", order.Total)
	}

	if used := voucherUsage(t, "WELCOME10"); used != usedBefore+1 {
		t.Errorf("voucher usage: got %d, want %d", used, usedBefore+1)
	}
}

func TestVoucher_MinOrderRejection(t *testing.T) {
	cartID := newCart(t)
	addItem(t, cartID, "tiramisu") // 5.50, below FAMIGLIA's 40.00 minimum

	resp := doPost(t, "/api/carts/"+cartID+"/voucher", map[string]string{"code": "FAMIGLIA"})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.StatusCode)
	}

	body := decodeJSON[errorResponse](t, resp)
	if body.Message != "minimum order of 40.00 not met" {
		t.Errorf("message: got %q", body.Message)
	}
}

func TestVoucher_UnknownCode(t *testing.T) {
	cartID := newCart(t)
	addItem(t, cartID, "tiramisu")

	resp := doPost(t, "/api/carts/"+cartID+"/voucher", map[string]string{"code": "NOPE"})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.StatusCode)
	}
	if msg := decodeJSON[errorResponse](t, resp).Message; msg != "invalid voucher code" {
		t.Errorf("message: got %q", msg)
	}
}

func TestLoyal_CheckAndPrecedence(t *testing.T) {
	cartID := newCart(t)
	addItem(t, cartID, "margherita") // 11.50

	// 5550100 is Rosa's seeded 15% loyal discount.
	resp := doPost(t, "/api/carts/"+cartID+"/loyal-check", map[string]string{"mobile": "5550100"})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("loyal check: expected 200, got %d", resp.StatusCode)
	}

	cart := decodeJSON[cartResponse](t, resp)
	if cart.Variant != "loyal" || cart.LoyalMobile != "5550100" {
		t.Fatalf("loyal not active: variant=%s mobile=%s", cart.Variant, cart.LoyalMobile)
	}
	if cart.DiscountAmount != "1.73" {
		t.Errorf("discount: got %s, want 1.73", cart.DiscountAmount)
	}

	// A voucher attempt while loyal is active must be refused.
	vr := doPost(t, "/api/carts/"+cartID+"/voucher", map[string]string{"code": "WELCOME10"})
	defer vr.Body.Close()

	if vr.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("voucher with loyal active: expected 422, got %d", vr.StatusCode)
	}
}

func TestLoyal_UnknownNumberClears(t *testing.T) {
	cartID := newCart(t)
	addItem(t, cartID, "margherita")

	resp := doPost(t, "/api/carts/"+cartID+"/loyal-check", map[string]string{"mobile": "5550100"})
	resp.Body.Close()

	resp = doPost(t, "/api/carts/"+cartID+"/loyal-check", map[string]string{"mobile": "5559999"})
	defer resp.Body.Close()

	cart := decodeJSON[cartResponse](t, resp)
	if cart.Variant != "none" {
		t.Errorf("variant after unknown number: got %s, want none", cart.Variant)
	}
}

func TestCheckout_EmptyCart(t *testing.T) {
	cartID := newCart(t)

	resp := doPost(t, "/api/carts/"+cartID+"/checkout", nil)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.StatusCode)
	}
	if msg := decodeJSON[errorResponse](t, resp).Message; msg != "cart is empty" {
		t.Errorf("message: got %q", msg)
	}
}

// voucherUsage reads the voucher's usage counter via the admin listing.
func voucherUsage(t *testing.T, code string) int {
	t.Helper()

	resp := doGet(t, "/api/vouchers")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list vouchers: expected 200, got %d", resp.StatusCode)
	}
	for _, v := range decodeJSON[[]voucherResponse](t, resp) {
		if v.Code == code {
			return v.TimesUsed
		}
	}
	t.Fatalf("voucher %s not found", code)
	return 0
}
