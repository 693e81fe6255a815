package pocketbase

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestClient(handler http.HandlerFunc) (Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewClient(server.URL, "tickets", logger), server
}

func TestListClaimedQuery(t *testing.T) {
	rq := require.New(t)

	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		rq.Equal(http.MethodGet, r.Method)
		rq.Equal("/api/collections/tickets/records", r.URL.Path)

		query := r.URL.Query()
		rq.Equal("vendido=true", query.Get("filter"))
		rq.Equal("num__boleto", query.Get("sort"))
		rq.Equal("id,num__boleto,nombre,telefono", query.Get("fields"))
		rq.Equal("500", query.Get("perPage"))

		_, _ = w.Write([]byte(`{
			"page": 1, "perPage": 500, "totalItems": 2,
			"items": [
				{"id": "a1", "num__boleto": 3, "nombre": "Ana", "telefono": "5512345678"},
				{"id": "b2", "num__boleto": 47, "nombre": "Ana", "telefono": "5512345678"}
			]
		}`))
	})
	defer server.Close()

	records, err := client.ListClaimed(context.Background())
	rq.NoError(err)
	rq.Len(records, 2)
	rq.Equal("a1", records[0].ID)
	rq.Equal(3, records[0].NumBoleto)
}

func TestFirstByNumber(t *testing.T) {
	rq := require.New(t)

	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		rq.Equal("num__boleto=5", r.URL.Query().Get("filter"))
		rq.Equal("1", r.URL.Query().Get("perPage"))
		_, _ = w.Write([]byte(`{"items": [{"id": "a1"}]}`))
	})
	defer server.Close()

	rec, err := client.FirstByNumber(context.Background(), 5)
	rq.NoError(err)
	rq.Equal("a1", rec.ID)
}

func TestFirstByNumberNotFound(t *testing.T) {
	rq := require.New(t)

	client, server := newTestClient(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"items": []}`))
	})
	defer server.Close()

	_, err := client.FirstByNumber(context.Background(), 5)
	rq.ErrorIs(err, ErrNotFound)
}

func TestCreateRecord(t *testing.T) {
	rq := require.New(t)

	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		rq.Equal(http.MethodPost, r.Method)
		rq.Equal("application/json", r.Header.Get("Content-Type"))

		var rec Record
		rq.NoError(json.NewDecoder(r.Body).Decode(&rec))
		rq.Equal(3, rec.NumBoleto)
		rq.True(rec.Vendido)

		rec.ID = "new1"
		_ = json.NewEncoder(w).Encode(rec)
	})
	defer server.Close()

	created, err := client.Create(context.Background(), Record{
		NumBoleto: 3, Nombre: "Ana", Telefono: "5512345678", Vendido: true,
	})
	rq.NoError(err)
	rq.Equal("new1", created.ID)
}

func TestUpdateAndDeletePaths(t *testing.T) {
	rq := require.New(t)

	var gotMethod, gotPath string
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		_, _ = w.Write([]byte(`{"id": "a1"}`))
	})
	defer server.Close()

	rq.NoError(client.Update(context.Background(), "a1", Record{Nombre: "Eva", Vendido: true}))
	rq.Equal(http.MethodPatch, gotMethod)
	rq.Equal("/api/collections/tickets/records/a1", gotPath)

	rq.NoError(client.Delete(context.Background(), "a1"))
	rq.Equal(http.MethodDelete, gotMethod)
	rq.Equal("/api/collections/tickets/records/a1", gotPath)
}

func TestRemoteErrorSurfaces(t *testing.T) {
	rq := require.New(t)

	client, server := newTestClient(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message": "Failed to create record."}`))
	})
	defer server.Close()

	_, err := client.Create(context.Background(), Record{NumBoleto: 3})
	rq.ErrorContains(err, "Failed to create record")
}
