package tasks

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/desertthunder/musicai/internal/models"
	"github.com/desertthunder/musicai/internal/shared"
)

func trackIDs(n int) []string {
	ids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		ids = append(ids, fmt.Sprintf("track%03d", i))
	}
	return ids
}

func TestCreateAndPopulate(t *testing.T) {
	t.Run("Preconditions", func(t *testing.T) {
		cases := []struct {
			name  string
			token string
			req   models.PlaylistRequest
		}{
			{"Empty Token", "", models.PlaylistRequest{Name: "Mix", TrackIDs: []string{"a"}}},
			{"Empty Name", "tok", models.PlaylistRequest{Name: "  ", TrackIDs: []string{"a"}}},
			{"No Tracks", "tok", models.PlaylistRequest{Name: "Mix"}},
			{"Only Blank Tracks", "tok", models.PlaylistRequest{Name: "Mix", TrackIDs: []string{"", "  "}}},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				catalog := &fakeCatalog{}
				engine := newTestEngine(&fakeGuard{valid: true}, catalog, nil, nil)

				_, err := engine.CreateAndPopulate(context.Background(), tc.token, tc.req)
				if !errors.Is(err, shared.ErrInvalidArgument) {
					t.Errorf("expected ErrInvalidArgument, got %v", err)
				}
				if catalog.createCalls != 0 || len(catalog.addBatches) != 0 {
					t.Error("expected no network activity on precondition failure")
				}
			})
		}
	})

	t.Run("Single Batch", func(t *testing.T) {
		catalog := &fakeCatalog{playlistID: "pl1"}
		engine := newTestEngine(&fakeGuard{valid: true}, catalog, nil, nil)

		req := models.PlaylistRequest{Name: "Mix", TrackIDs: []string{"a", "b", "c"}}
		playlistID, err := engine.CreateAndPopulate(context.Background(), "tok", req)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if playlistID != "pl1" {
			t.Errorf("expected pl1, got %s", playlistID)
		}

		want := [][]string{{"spotify:track:a", "spotify:track:b", "spotify:track:c"}}
		if !reflect.DeepEqual(catalog.addBatches, want) {
			t.Errorf("expected %v, got %v", want, catalog.addBatches)
		}
	})

	t.Run("Chunks Into Ordered Batches", func(t *testing.T) {
		catalog := &fakeCatalog{}
		engine := newTestEngine(&fakeGuard{valid: true}, catalog, nil, nil)

		req := models.PlaylistRequest{Name: "Big Mix", TrackIDs: trackIDs(120)}
		if _, err := engine.CreateAndPopulate(context.Background(), "tok", req); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if len(catalog.addBatches) != 3 {
			t.Fatalf("expected 3 batches, got %d", len(catalog.addBatches))
		}
		for i, wantLen := range []int{50, 50, 20} {
			if len(catalog.addBatches[i]) != wantLen {
				t.Errorf("expected batch %d to hold %d tracks, got %d", i, wantLen, len(catalog.addBatches[i]))
			}
		}

		// Flattened batches preserve the request order exactly.
		pos := 0
		for _, batch := range catalog.addBatches {
			for _, uri := range batch {
				want := fmt.Sprintf("spotify:track:track%03d", pos)
				if uri != want {
					t.Fatalf("expected %s at position %d, got %s", want, pos, uri)
				}
				pos++
			}
		}
	})

	t.Run("Filters Blank And Duplicate Tracks", func(t *testing.T) {
		catalog := &fakeCatalog{}
		engine := newTestEngine(&fakeGuard{valid: true}, catalog, nil, nil)

		req := models.PlaylistRequest{Name: "Mix", TrackIDs: []string{"a", "a", "", "b"}}
		if _, err := engine.CreateAndPopulate(context.Background(), "tok", req); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		want := [][]string{{"spotify:track:a", "spotify:track:b"}}
		if !reflect.DeepEqual(catalog.addBatches, want) {
			t.Errorf("expected %v, got %v", want, catalog.addBatches)
		}
	})

	t.Run("Batch Failure Carries Playlist ID", func(t *testing.T) {
		cause := errors.New("quota exceeded")
		catalog := &fakeCatalog{playlistID: "partial1", failBatch: 2, addTracksErr: cause}
		engine := newTestEngine(&fakeGuard{valid: true}, catalog, nil, nil)

		req := models.PlaylistRequest{Name: "Big Mix", TrackIDs: trackIDs(120)}
		playlistID, err := engine.CreateAndPopulate(context.Background(), "tok", req)

		var writeErr *PlaylistWriteError
		if !errors.As(err, &writeErr) {
			t.Fatalf("expected PlaylistWriteError, got %v", err)
		}
		if writeErr.PlaylistID != "partial1" {
			t.Errorf("expected partial playlist id, got %s", writeErr.PlaylistID)
		}
		if playlistID != "partial1" {
			t.Errorf("expected partial playlist id returned, got %s", playlistID)
		}
		if !errors.Is(err, cause) {
			t.Error("expected original cause preserved")
		}

		// The failed batch aborts the remainder.
		if len(catalog.addBatches) != 2 {
			t.Errorf("expected submission to stop after 2 batches, got %d", len(catalog.addBatches))
		}
	})

	t.Run("Default Description", func(t *testing.T) {
		catalog := &fakeCatalog{}
		engine := newTestEngine(&fakeGuard{valid: true}, catalog, nil, nil)

		req := models.PlaylistRequest{Name: "Mix", TrackIDs: []string{"a"}}
		if _, err := engine.CreateAndPopulate(context.Background(), "tok", req); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})

	t.Run("User Lookup Failure", func(t *testing.T) {
		catalog := &fakeCatalog{userIDErr: errors.New("profile unavailable")}
		engine := newTestEngine(&fakeGuard{valid: true}, catalog, nil, nil)

		req := models.PlaylistRequest{Name: "Mix", TrackIDs: []string{"a"}}
		_, err := engine.CreateAndPopulate(context.Background(), "tok", req)
		if err == nil {
			t.Fatal("expected error")
		}
		if catalog.createCalls != 0 {
			t.Error("expected no playlist creation after failed user lookup")
		}
	})
}

func TestFilterTrackIDs(t *testing.T) {
	cases := []struct {
		name string
		in   []string
		want []string
	}{
		{"Deduplicates Preserving Order", []string{"a", "a", "", "b"}, []string{"a", "b"}},
		{"Trims Whitespace", []string{" a ", "b"}, []string{"a", "b"}},
		{"All Blank", []string{"", "  "}, []string{}},
		{"Empty", nil, []string{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := filterTrackIDs(tc.in)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("expected %v, got %v", tc.want, got)
			}
		})
	}
}
