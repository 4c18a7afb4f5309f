package model

import "testing"

func TestParseRoleDegradesToBuyer(t *testing.T) {
	cases := map[string]Role{
		"buyer":  RoleBuyer,
		"seller": RoleSeller,
		"admin":  RoleAdmin,
		"":       RoleBuyer,
		"ADMIN":  RoleBuyer, // roles are stored lowercase; anything else is untrusted
		"root":   RoleBuyer,
	}
	for raw, want := range cases {
		if got := ParseRole(raw); got != want {
			t.Fatalf("ParseRole(%q): got %s, want %s", raw, got, want)
		}
	}
}

func TestRoleCapabilities(t *testing.T) {
	if !RoleAdmin.IsAdmin() || RoleSeller.IsAdmin() || RoleBuyer.IsAdmin() {
		t.Fatal("only admin holds the admin capability")
	}
	// selling: seller and admin
	if !RoleSeller.IsSeller() || !RoleAdmin.IsSeller() || RoleBuyer.IsSeller() {
		t.Fatal("seller capability must cover seller and admin only")
	}
	// buying: everyone
	for _, r := range []Role{RoleBuyer, RoleSeller, RoleAdmin} {
		if !r.IsBuyer() {
			t.Fatalf("%s should be able to buy", r)
		}
	}
	// management flags are admin-only
	for _, r := range []Role{RoleBuyer, RoleSeller} {
		if r.CanManageUsers() || r.CanManageProducts() || r.CanViewAnalytics() {
			t.Fatalf("%s should hold no management capability", r)
		}
	}
	if !RoleAdmin.CanManageUsers() || !RoleAdmin.CanManageProducts() || !RoleAdmin.CanViewAnalytics() {
		t.Fatal("admin should hold every management capability")
	}
}

func TestValidCondition(t *testing.T) {
	for _, c := range []string{"brand_new", "like_new", "excellent", "good", "fair", "vintage"} {
		if !ValidCondition(c) {
			t.Fatalf("%q should be a valid condition", c)
		}
	}
	for _, c := range []string{"", "new", "used", "Like New"} {
		if ValidCondition(c) {
			t.Fatalf("%q should be rejected", c)
		}
	}
}
