package upi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"fitcash/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testWithdrawal() *domain.Withdrawal {
	return &domain.Withdrawal{
		ID:     uuid.New(),
		UserID: "9876500001",
		Points: 1000,
		Amount: domain.AmountForPoints(1000),
		UpiID:  "user@upi",
		Status: domain.StatusProcessing,
	}
}

func TestTransfer_Success(t *testing.T) {
	w := testWithdrawal()

	server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/auth/token":
			var creds map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
			assert.Equal(t, "client-1", creds["client_id"])
			assert.Equal(t, "secret-1", creds["client_secret"])
			json.NewEncoder(rw).Encode(tokenResponse{Token: "tok-abc", ExpiresIn: 300})

		case "/v1/transfers":
			assert.Equal(t, "Bearer tok-abc", r.Header.Get("Authorization"))

			var tr transferRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&tr))
			assert.True(t, strings.HasPrefix(tr.TransferID, "WD_"+w.ID.String()+"_"))
			assert.Equal(t, "100", tr.Amount.String())
			assert.Equal(t, "user@upi", tr.UpiID)

			json.NewEncoder(rw).Encode(transferResponse{Status: "SUCCESS", TransactionID: "TXN123"})

		default:
			rw.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := NewClient(server.URL, "client-1", "secret-1", 5*time.Second, false)
	result := client.Transfer(context.Background(), w)

	assert.True(t, result.Success)
	assert.Equal(t, "TXN123", result.TransactionID)
	assert.Empty(t, result.Reason)
}

func TestTransfer_ProviderRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/auth/token":
			json.NewEncoder(rw).Encode(tokenResponse{Token: "tok-abc"})
		case "/v1/transfers":
			json.NewEncoder(rw).Encode(transferResponse{Status: "FAILED", Message: "insufficient provider balance"})
		}
	}))
	defer server.Close()

	client := NewClient(server.URL, "client-1", "secret-1", 5*time.Second, false)
	result := client.Transfer(context.Background(), testWithdrawal())

	assert.False(t, result.Success)
	assert.Equal(t, "insufficient provider balance", result.Reason)
	assert.Empty(t, result.TransactionID)
}

func TestTransfer_AuthFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(http.StatusUnauthorized)
		rw.Write([]byte(`{"error":"bad credentials"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "client-1", "wrong", 5*time.Second, false)
	result := client.Transfer(context.Background(), testWithdrawal())

	assert.False(t, result.Success)
	assert.Contains(t, result.Reason, "authorization failed")
}

func TestTransfer_MalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/auth/token":
			json.NewEncoder(rw).Encode(tokenResponse{Token: "tok-abc"})
		case "/v1/transfers":
			rw.Write([]byte("<html>gateway error</html>"))
		}
	}))
	defer server.Close()

	client := NewClient(server.URL, "client-1", "secret-1", 5*time.Second, false)
	result := client.Transfer(context.Background(), testWithdrawal())

	assert.False(t, result.Success)
	assert.Contains(t, result.Reason, "transfer failed")
}

func TestTransfer_SuccessWithoutTransactionID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/auth/token":
			json.NewEncoder(rw).Encode(tokenResponse{Token: "tok-abc"})
		case "/v1/transfers":
			json.NewEncoder(rw).Encode(transferResponse{Status: "SUCCESS"})
		}
	}))
	defer server.Close()

	client := NewClient(server.URL, "client-1", "secret-1", 5*time.Second, false)
	result := client.Transfer(context.Background(), testWithdrawal())

	assert.False(t, result.Success)
	assert.Contains(t, result.Reason, "transaction id")
}

func TestTransfer_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		json.NewEncoder(rw).Encode(tokenResponse{Token: "tok-abc"})
	}))
	defer server.Close()

	client := NewClient(server.URL, "client-1", "secret-1", 50*time.Millisecond, false)
	result := client.Transfer(context.Background(), testWithdrawal())

	assert.False(t, result.Success)
	assert.Contains(t, result.Reason, "authorization failed")
}

func TestTransfer_BypassSkipsNetwork(t *testing.T) {
	var hits atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer server.Close()

	client := NewClient(server.URL, "", "", 5*time.Second, true)
	result := client.Transfer(context.Background(), testWithdrawal())

	assert.True(t, result.Success)
	assert.True(t, strings.HasPrefix(result.TransactionID, "SIM_"))
	assert.Equal(t, int64(0), hits.Load())
}

func TestTransfer_MissingCredentials(t *testing.T) {
	client := NewClient("http://localhost:0", "", "", 5*time.Second, false)
	result := client.Transfer(context.Background(), testWithdrawal())

	assert.False(t, result.Success)
	assert.Contains(t, result.Reason, "credentials not configured")
}
