package domain

import "testing"

func TestParseTierDegradesUnknownToFree(t *testing.T) {
	t.Parallel()

	cases := map[string]MembershipTier{
		"premium":  TierPremium,
		"socios":   TierSocios,
		"free":     TierFree,
		"":         TierFree,
		"PLATINUM": TierFree,
		"Premium":  TierFree,
	}
	for raw, want := range cases {
		if got := ParseTier(raw); got != want {
			t.Errorf("ParseTier(%q) = %q, want %q", raw, got, want)
		}
	}
}

func TestTierEligibleMatrix(t *testing.T) {
	t.Parallel()

	cases := []struct {
		tier MembershipTier
		gate MembershipGate
		want bool
	}{
		{TierFree, GateBoth, false},
		{TierFree, GatePremium, false},
		{TierFree, GateSocios, false},
		{TierFree, GateFree, false},
		{TierPremium, GateBoth, true},
		{TierPremium, GatePremium, true},
		{TierPremium, GateSocios, false},
		{TierPremium, GateFree, false},
		{TierSocios, GateBoth, true},
		{TierSocios, GatePremium, false},
		{TierSocios, GateSocios, true},
		{TierSocios, GateFree, false},
		{MembershipTier(""), GateBoth, false},
	}
	for _, tc := range cases {
		if got := TierEligible(tc.tier, tc.gate); got != tc.want {
			t.Errorf("TierEligible(%q, %q) = %v, want %v", tc.tier, tc.gate, got, tc.want)
		}
	}
}

func TestResolvePartnerDiscountPerTier(t *testing.T) {
	t.Parallel()

	p := Partner{
		ReductionType:         ReductionPercentage,
		ReductionValuePremium: 10,
		ReductionValueSocios:  20,
	}

	if d := ResolvePartnerDiscount(TierSocios, p); d.Amount != 20 || !d.HasDiscount() {
		t.Fatalf("socios discount = %+v, want 20", d)
	}
	if d := ResolvePartnerDiscount(TierPremium, p); d.Amount != 10 {
		t.Fatalf("premium discount = %+v, want 10", d)
	}
	if d := ResolvePartnerDiscount(TierFree, p); d.Amount != 0 || d.HasDiscount() {
		t.Fatalf("free discount = %+v, want 0", d)
	}
}

func TestResolvePartnerDiscountNeverDecreasesWithUpgrade(t *testing.T) {
	t.Parallel()

	// Socios receives at least the premium value on every partner whose
	// configuration respects the tier ordering.
	p := Partner{
		ReductionType:         ReductionFixed,
		ReductionValuePremium: 500,
		ReductionValueSocios:  1000,
	}
	free := ResolvePartnerDiscount(TierFree, p)
	premium := ResolvePartnerDiscount(TierPremium, p)
	socios := ResolvePartnerDiscount(TierSocios, p)
	if free.Amount > premium.Amount || premium.Amount > socios.Amount {
		t.Fatalf("tier upgrade decreased discount: free=%d premium=%d socios=%d",
			free.Amount, premium.Amount, socios.Amount)
	}
}

func TestResolveOfferDiscountRespectsGate(t *testing.T) {
	t.Parallel()

	o := PartnerOffer{
		ReductionType:      ReductionPercentage,
		ReductionValue:     20,
		MembershipRequired: GateSocios,
	}

	if d := ResolveOfferDiscount(TierSocios, o); d.Amount != 20 {
		t.Fatalf("socios against socios gate = %+v, want 20", d)
	}
	if d := ResolveOfferDiscount(TierPremium, o); d.Amount != 0 {
		t.Fatalf("premium against socios gate = %+v, want 0", d)
	}
	if d := ResolveOfferDiscount(TierFree, o); d.Amount != 0 {
		t.Fatalf("free against socios gate = %+v, want 0", d)
	}
}

func TestApplyDiscount(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name         string
		discount     Discount
		original     int64
		wantDiscount int64
		wantFinal    int64
	}{
		{"twenty percent of 100 euros", Discount{Amount: 20, Type: ReductionPercentage}, 10000, 2000, 8000},
		{"percentage rounds down", Discount{Amount: 33, Type: ReductionPercentage}, 1001, 330, 671},
		{"fixed amount", Discount{Amount: 500, Type: ReductionFixed}, 2000, 500, 1500},
		{"fixed clamped to purchase", Discount{Amount: 5000, Type: ReductionFixed}, 2000, 2000, 0},
		{"zero discount", Discount{Amount: 0, Type: ReductionPercentage}, 2000, 0, 2000},
		{"zero purchase", Discount{Amount: 20, Type: ReductionPercentage}, 0, 0, 0},
	}
	for _, tc := range cases {
		gotDiscount, gotFinal := ApplyDiscount(tc.discount, tc.original)
		if gotDiscount != tc.wantDiscount || gotFinal != tc.wantFinal {
			t.Errorf("%s: ApplyDiscount = (%d, %d), want (%d, %d)",
				tc.name, gotDiscount, gotFinal, tc.wantDiscount, tc.wantFinal)
		}
		if gotFinal < 0 {
			t.Errorf("%s: final amount went negative", tc.name)
		}
	}
}
