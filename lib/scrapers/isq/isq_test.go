package isq

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"isqexplorer-backend/lib/telemetry"

	"github.com/stretchr/testify/require"
)

func TestFetch(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:isq")
	defer cleanup()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/search":
			fmt.Fprint(w, `<html><body>
<select name="dept"><option value="">Select...</option><option value="61">Computing</option></select>
</body></html>`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	client, err := NewClient(context.Background(), ClientOptions{
		BaseUrl: server.URL,
	})
	require.NoError(t, err)

	{
		doc, err := client.Fetch(context.Background(), "/search")
		require.NoError(t, err)

		options := doc.Find("select[name=dept] option")
		require.Equal(t, 2, len(options.Nodes))
		require.Equal(t, "61", options.Last().AttrOr("value", ""))
	}
	{
		_, err := client.Fetch(context.Background(), "/missing")
		require.ErrorContains(t, err, "status 404")
	}
}

func TestSubmitForm(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:isq")
	defer cleanup()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, r.ParseForm())
		fmt.Fprintf(
			w,
			`<html><body><h1>results for %s in %s</h1></body></html>`,
			r.PostFormValue("dept"),
			r.PostFormValue("term"),
		)
	}))
	defer server.Close()

	client, err := NewClient(context.Background(), ClientOptions{
		BaseUrl: server.URL,
	})
	require.NoError(t, err)

	doc, err := client.SubmitForm(context.Background(), "/results", map[string]string{
		"dept": "61",
		"term": "201980",
	})
	require.NoError(t, err)
	require.Equal(t, "results for 61 in 201980", doc.Find("h1").Text())
}
