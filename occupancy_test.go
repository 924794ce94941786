package server

import "testing"

func TestClaimIsExclusive(t *testing.T) {
	occ := NewOccupancyMap(openTilemap(8, 8))

	if !occ.TryClaim(3, 3, "alpha") {
		t.Fatalf("first claim on a free tile must succeed")
	}
	if occ.TryClaim(3, 3, "beta") {
		t.Fatalf("second claimant must be rejected")
	}
	if id, _ := occ.OccupantAt(3, 3); id != "alpha" {
		t.Fatalf("occupant = %q, want alpha", id)
	}
}

func TestReclaimBySameActorIsNoop(t *testing.T) {
	occ := NewOccupancyMap(openTilemap(8, 8))
	occ.TryClaim(3, 3, "alpha")
	if !occ.TryClaim(3, 3, "alpha") {
		t.Fatalf("re-claim by the holder must succeed")
	}
	if occ.Len() != 1 {
		t.Fatalf("re-claim must not add entries, len = %d", occ.Len())
	}
}

func TestReleaseOnlyByHolder(t *testing.T) {
	occ := NewOccupancyMap(openTilemap(8, 8))
	occ.TryClaim(3, 3, "alpha")

	occ.Release(3, 3, "beta")
	if occ.IsFree(3, 3) {
		t.Fatalf("release by a non-holder must not free the tile")
	}

	occ.Release(3, 3, "alpha")
	if !occ.IsFree(3, 3) {
		t.Fatalf("release by the holder must free the tile")
	}
	if !occ.TryClaim(3, 3, "beta") {
		t.Fatalf("freed tile must be claimable")
	}
}

func TestClaimRejectsBlockedTiles(t *testing.T) {
	occ := NewOccupancyMap(openTilemap(8, 8))
	if occ.TryClaim(0, 0, "alpha") {
		t.Fatalf("blocked tile must not be claimable")
	}
	if occ.TryClaim(-1, 4, "alpha") {
		t.Fatalf("out-of-bounds tile must not be claimable")
	}
	if occ.IsFree(0, 0) {
		t.Fatalf("blocked tile must not report free")
	}
}
