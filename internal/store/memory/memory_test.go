package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cwoodfield/paritylens/internal/domain"
	"github.com/cwoodfield/paritylens/internal/price"
)

func testContract(platform domain.Platform, externalID, title string) domain.Contract {
	return domain.Contract{
		Platform:   platform,
		ExternalID: externalID,
		Title:      title,
		Category:   "Politics",
		Price:      price.MustParse("0.50"),
		Active:     true,
		CreatedAt:  time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		UpdatedAt:  time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestContractStoreUpsert(t *testing.T) {
	ctx := context.Background()
	s := NewContractStore()

	first, err := s.Upsert(ctx, testContract(domain.PlatformKalshi, "K1", "Fed cuts rates"))
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if first.ID != 1 {
		t.Fatalf("first ID = %d, want 1", first.ID)
	}

	second, _ := s.Upsert(ctx, testContract(domain.PlatformPolymarket, "P1", "Fed cuts rates"))
	if second.ID != 2 {
		t.Fatalf("second ID = %d, want 2", second.ID)
	}

	// Same identity, new price: the ID and CreatedAt must not move.
	updated := testContract(domain.PlatformKalshi, "K1", "Fed cuts rates")
	updated.Price = price.MustParse("0.61")
	updated.CreatedAt = time.Date(2026, 8, 2, 0, 0, 0, 0, time.UTC)
	got, err := s.Upsert(ctx, updated)
	if err != nil {
		t.Fatalf("Upsert update: %v", err)
	}
	if got.ID != first.ID {
		t.Fatalf("updated ID = %d, want %d", got.ID, first.ID)
	}
	if !got.CreatedAt.Equal(first.CreatedAt) {
		t.Fatalf("CreatedAt changed on update: %v", got.CreatedAt)
	}
	if got.Price != price.MustParse("0.61") {
		t.Fatalf("Price = %s, want 0.61", got.Price)
	}

	if n, _ := s.Count(ctx); n != 2 {
		t.Fatalf("Count = %d, want 2", n)
	}

	byKey, err := s.GetByKey(ctx, domain.ContractKey{Platform: domain.PlatformKalshi, ExternalID: "K1"})
	if err != nil {
		t.Fatalf("GetByKey: %v", err)
	}
	if byKey.Price != price.MustParse("0.61") {
		t.Fatalf("GetByKey price = %s, want 0.61", byKey.Price)
	}
}

func TestContractStoreNotFound(t *testing.T) {
	ctx := context.Background()
	s := NewContractStore()

	if _, err := s.GetByID(ctx, 99); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("GetByID err = %v, want ErrNotFound", err)
	}
	if _, err := s.GetByKey(ctx, domain.ContractKey{Platform: domain.PlatformKalshi, ExternalID: "nope"}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("GetByKey err = %v, want ErrNotFound", err)
	}
	if err := s.Deactivate(ctx, 99); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Deactivate err = %v, want ErrNotFound", err)
	}
}

func TestContractStoreList(t *testing.T) {
	ctx := context.Background()
	s := NewContractStore()

	s.Upsert(ctx, testContract(domain.PlatformKalshi, "K1", "a"))
	s.Upsert(ctx, testContract(domain.PlatformKalshi, "K2", "b"))
	s.Upsert(ctx, testContract(domain.PlatformPolymarket, "P1", "c"))
	inactive := testContract(domain.PlatformKalshi, "K3", "d")
	inactive.Active = false
	s.Upsert(ctx, inactive)

	tests := []struct {
		name    string
		filter  domain.ContractFilter
		wantIDs []int64
	}{
		{name: "all", filter: domain.ContractFilter{}, wantIDs: []int64{1, 2, 3, 4}},
		{name: "kalshi only", filter: domain.ContractFilter{Platform: domain.PlatformKalshi}, wantIDs: []int64{1, 2, 4}},
		{name: "active only", filter: domain.ContractFilter{ActiveOnly: true}, wantIDs: []int64{1, 2, 3}},
		{name: "limit", filter: domain.ContractFilter{Limit: 2}, wantIDs: []int64{1, 2}},
		{name: "offset then limit", filter: domain.ContractFilter{Offset: 1, Limit: 2}, wantIDs: []int64{2, 3}},
		{name: "offset past end", filter: domain.ContractFilter{Offset: 10}, wantIDs: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.List(ctx, tt.filter)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("List returned %d contracts, want %d", len(got), len(tt.wantIDs))
			}
			for i, c := range got {
				if c.ID != tt.wantIDs[i] {
					t.Fatalf("List[%d].ID = %d, want %d", i, c.ID, tt.wantIDs[i])
				}
			}
		})
	}
}

func TestContractStoreDeactivate(t *testing.T) {
	ctx := context.Background()
	s := NewContractStore()

	c, _ := s.Upsert(ctx, testContract(domain.PlatformKalshi, "K1", "a"))
	if err := s.Deactivate(ctx, c.ID); err != nil {
		t.Fatalf("Deactivate: %v", err)
	}
	got, _ := s.GetByID(ctx, c.ID)
	if got.Active {
		t.Fatal("contract still active after Deactivate")
	}
}

func TestHistoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewHistoryStore()

	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		p, err := s.Append(ctx, domain.PricePoint{
			ContractID: 1,
			Price:      price.FromFloat(0.50 + float64(i)/100),
			At:         base.Add(time.Duration(i) * time.Hour),
		})
		if err != nil {
			t.Fatalf("Append: %v", err)
		}
		if p.ID != int64(i+1) {
			t.Fatalf("point ID = %d, want %d", p.ID, i+1)
		}
	}
	s.Append(ctx, domain.PricePoint{ContractID: 2, Price: price.MustParse("0.30"), At: base})

	got, err := s.ListByContract(ctx, 1, 3)
	if err != nil {
		t.Fatalf("ListByContract: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d points, want 3", len(got))
	}
	// Newest first.
	if !got[0].At.After(got[1].At) || !got[1].At.After(got[2].At) {
		t.Fatalf("points not newest first: %v", got)
	}

	all, _ := s.ListByContract(ctx, 1, 0)
	if len(all) != 5 {
		t.Fatalf("limit 0 returned %d points, want 5", len(all))
	}

	none, _ := s.ListByContract(ctx, 42, 0)
	if len(none) != 0 {
		t.Fatalf("unknown contract returned %d points", len(none))
	}
}

func TestOrderBookStoreReplace(t *testing.T) {
	ctx := context.Background()
	s := NewOrderBookStore()

	first := []domain.OrderBookLevel{
		{Price: price.MustParse("0.50"), Size: 100, Side: domain.SideBid},
		{Price: price.MustParse("0.52"), Size: 50, Side: domain.SideAsk},
	}
	if err := s.Replace(ctx, 1, first); err != nil {
		t.Fatalf("Replace: %v", err)
	}

	got, _ := s.ListByContract(ctx, 1)
	if len(got) != 2 {
		t.Fatalf("got %d levels, want 2", len(got))
	}
	for _, lv := range got {
		if lv.ContractID != 1 || lv.ID == 0 {
			t.Fatalf("level not stamped: %+v", lv)
		}
	}

	// Replace swaps the snapshot wholesale.
	second := []domain.OrderBookLevel{{Price: price.MustParse("0.55"), Size: 10, Side: domain.SideAsk}}
	s.Replace(ctx, 1, second)
	got, _ = s.ListByContract(ctx, 1)
	if len(got) != 1 || got[0].Price != price.MustParse("0.55") {
		t.Fatalf("snapshot after replace = %+v", got)
	}

	s.Replace(ctx, 2, first)
	ids, _ := s.ContractIDs(ctx)
	if len(ids) != 2 || ids[0] != 1 || ids[1] != 2 {
		t.Fatalf("ContractIDs = %v, want [1 2]", ids)
	}

	// An empty replacement drops the contract from the index.
	s.Replace(ctx, 1, nil)
	ids, _ = s.ContractIDs(ctx)
	if len(ids) != 1 || ids[0] != 2 {
		t.Fatalf("ContractIDs after empty replace = %v, want [2]", ids)
	}
}

func TestOpportunityStoreSupersede(t *testing.T) {
	ctx := context.Background()
	s := NewOpportunityStore()

	o1, err := s.Insert(ctx, domain.ArbitrageOpportunity{KalshiID: 1, PolymarketID: 2, Active: true})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if o1.ID != 1 {
		t.Fatalf("first ID = %d, want 1", o1.ID)
	}
	s.Insert(ctx, domain.ArbitrageOpportunity{KalshiID: 3, PolymarketID: 4, Active: true})

	active, _ := s.ListActive(ctx)
	if len(active) != 2 {
		t.Fatalf("active = %d, want 2", len(active))
	}

	if err := s.DeactivateAll(ctx); err != nil {
		t.Fatalf("DeactivateAll: %v", err)
	}
	o3, _ := s.Insert(ctx, domain.ArbitrageOpportunity{KalshiID: 5, PolymarketID: 6, Active: true})
	if o3.ID != 3 {
		t.Fatalf("ID after supersede = %d, want 3", o3.ID)
	}

	active, _ = s.ListActive(ctx)
	if len(active) != 1 || active[0].ID != 3 {
		t.Fatalf("active after supersede = %+v, want only ID 3", active)
	}
}
