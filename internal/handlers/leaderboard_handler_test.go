package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/AbiralTr/Arc-Web/internal/leaderboard"
	"github.com/AbiralTr/Arc-Web/internal/testhelpers"
)

func TestBoardHandlerReturnsTopAndFriends(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	me := testhelpers.CreateUser(t, f.store.DB, "me")
	friend := testhelpers.CreateUser(t, f.store.DB, "friend")
	stranger := testhelpers.CreateUser(t, f.store.DB, "stranger")

	friend.Level = 5
	stranger.Level = 9
	for _, u := range []any{friend, stranger} {
		if err := f.store.DB.Save(u).Error; err != nil {
			t.Fatalf("save: %v", err)
		}
	}
	fs, err := f.store.Friendships.Request(ctx, me.ID, friend.ID)
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	if err := f.store.Friendships.Accept(ctx, fs.ID, friend.ID); err != nil {
		t.Fatalf("Accept: %v", err)
	}

	rec := serve(http.HandlerFunc(f.boards.BoardHandler), asUser(jsonRequest(http.MethodGet, "/api/leaderboard", nil), me.ID))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	board := decode[leaderboard.Board](t, rec)

	if len(board.Users) != 3 || board.Users[0].Username != "stranger" {
		t.Fatalf("unexpected top list %+v", board.Users)
	}
	if !board.Users[2].IsSelf {
		t.Fatalf("caller should be marked in the top list, got %+v", board.Users[2])
	}
	if len(board.Friends) != 2 || board.Friends[0].Username != "friend" || board.Friends[1].ID != me.ID {
		t.Fatalf("unexpected friends list %+v", board.Friends)
	}
}
