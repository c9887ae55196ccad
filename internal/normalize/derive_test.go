package normalize

import "testing"

func TestPriceToRentRatio(t *testing.T) {
	tests := []struct {
		name        string
		price       *float64
		priceChange *float64
		rent        *float64
		want        *float64
	}{
		{"adjusted price tier", fptr(300000), fptr(5000), fptr(2000), fptr(152.5)},
		{"plain price tier", fptr(300000), nil, fptr(2000), fptr(150)},
		{"zero rent guard", fptr(300000), nil, fptr(0), nil},
		{"zero rent guard with change", fptr(300000), fptr(5000), fptr(0), nil},
		{"missing rent", fptr(300000), fptr(5000), nil, nil},
		{"missing price", nil, fptr(5000), fptr(2000), nil},
		{"everything missing", nil, nil, nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PriceToRentRatio(tt.price, tt.priceChange, tt.rent)
			if !floatPtrEqual(got, tt.want) {
				t.Errorf("PriceToRentRatio = %v, want %v", deref(got), deref(tt.want))
			}
		})
	}
}
