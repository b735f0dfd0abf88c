package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/marketplace-api/internal/api/shared/dto"
	apierrors "github.com/feral-file/marketplace-api/internal/api/shared/errors"
	"github.com/feral-file/marketplace-api/internal/api/shared/executor"
	"github.com/feral-file/marketplace-api/internal/domain"
	"github.com/feral-file/marketplace-api/internal/store"
)

// stubExecutor returns canned responses and records the arguments of the
// last call.
type stubExecutor struct {
	executor.Executor // panic on anything not stubbed

	lastWallet   string
	lastContract string
	lastFilter   *store.Filter
	lastRef      domain.NFTRef
	lastParams   executor.CreateCollectionParams

	ownerResp      *dto.OwnerResponse
	ownerListResp  *dto.OwnerListResponse
	nftListResp    *dto.NFTListResponse
	favouriteResp  *dto.FavouriteResponse
	collectionResp *dto.CollectionResponse
	err            error
}

func (s *stubExecutor) GetOrCreateOwner(ctx context.Context, wallet string) (*dto.OwnerResponse, error) {
	s.lastWallet = wallet
	return s.ownerResp, s.err
}

func (s *stubExecutor) ListOwners(ctx context.Context, filter *store.Filter) (*dto.OwnerListResponse, error) {
	s.lastFilter = filter
	return s.ownerListResp, s.err
}

func (s *stubExecutor) ListOwnerNFTs(ctx context.Context, wallet string, filter *store.Filter) (*dto.NFTListResponse, error) {
	s.lastWallet = wallet
	s.lastFilter = filter
	return s.nftListResp, s.err
}

func (s *stubExecutor) AddFavourite(ctx context.Context, wallet string, ref domain.NFTRef) (*dto.FavouriteResponse, error) {
	s.lastWallet = wallet
	s.lastRef = ref
	return s.favouriteResp, s.err
}

func (s *stubExecutor) CreateCollection(ctx context.Context, params executor.CreateCollectionParams) (*dto.CollectionResponse, error) {
	s.lastParams = params
	return s.collectionResp, s.err
}

func (s *stubExecutor) GetCollectionDetail(ctx context.Context, contract string) (*dto.CollectionDetailResponse, error) {
	s.lastContract = contract
	if s.err != nil {
		return nil, s.err
	}
	return &dto.CollectionDetailResponse{CollectionResponse: *s.collectionResp}, nil
}

func (s *stubExecutor) TopCollections(ctx context.Context, filter *store.Filter) (*dto.CollectionListResponse, error) {
	s.lastFilter = filter
	return &dto.CollectionListResponse{}, s.err
}

func newTestRouter(stub *stubExecutor) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	SetupRoutes(router, NewHandler(stub))
	return router
}

func doRequest(t *testing.T, router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req, err := http.NewRequest(method, path, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestGetOwnerRoute(t *testing.T) {
	stub := &stubExecutor{ownerResp: &dto.OwnerResponse{Wallet: "0xalice"}}
	router := newTestRouter(stub)

	w := doRequest(t, router, http.MethodGet, "/api/v1/owners/0xalice", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "0xalice", stub.lastWallet)

	var resp dto.OwnerResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "0xalice", resp.Wallet)
}

func TestErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"not found", apierrors.NewNotFoundError("Owner not found"), http.StatusNotFound},
		{"conflict", apierrors.NewConflictError("Owner already exists"), http.StatusConflict},
		{"validation", apierrors.NewValidationError("bad field"), http.StatusUnprocessableEntity},
		{"service", apierrors.NewServiceError("upload failed"), http.StatusBadGateway},
		{"database", apierrors.NewDatabaseError("query failed"), http.StatusInternalServerError},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			stub := &stubExecutor{err: tc.err}
			router := newTestRouter(stub)

			w := doRequest(t, router, http.MethodGet, "/api/v1/owners/0xalice", "")
			assert.Equal(t, tc.status, w.Code)
		})
	}
}

func TestListOwnerNFTsParsesFilter(t *testing.T) {
	stub := &stubExecutor{nftListResp: &dto.NFTListResponse{}}
	router := newTestRouter(stub)

	w := doRequest(t, router, http.MethodGet,
		"/api/v1/owners/0xalice/nfts?filter=price:gte:1.5&filter=name:contains:cat&sort=-price&limit=5&offset=10", "")
	require.Equal(t, http.StatusOK, w.Code)

	filter := stub.lastFilter
	require.NotNil(t, filter)
	require.Len(t, filter.Predicates, 2)
	assert.Equal(t, store.Predicate{Field: "price", Op: store.OpGte, Value: 1.5}, filter.Predicates[0])
	assert.Equal(t, store.Predicate{Field: "name", Op: store.OpContains, Value: "cat"}, filter.Predicates[1])
	require.NotNil(t, filter.Sort)
	assert.Equal(t, store.Sort{Field: "price", Desc: true}, *filter.Sort)
	assert.Equal(t, int64(5), filter.Limit)
	assert.Equal(t, int64(10), filter.Offset)
}

func TestListQueryRejectsBadOperator(t *testing.T) {
	stub := &stubExecutor{nftListResp: &dto.NFTListResponse{}}
	router := newTestRouter(stub)

	w := doRequest(t, router, http.MethodGet, "/api/v1/owners/0xalice/nfts?filter=price:between:1", "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestListQueryCapsLimit(t *testing.T) {
	stub := &stubExecutor{ownerListResp: &dto.OwnerListResponse{}}
	router := newTestRouter(stub)

	w := doRequest(t, router, http.MethodGet, "/api/v1/owners?limit=5000", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(MAX_PAGE_SIZE), stub.lastFilter.Limit)
}

func TestAddFavouriteRoute(t *testing.T) {
	stub := &stubExecutor{favouriteResp: &dto.FavouriteResponse{Changed: true}}
	router := newTestRouter(stub)

	w := doRequest(t, router, http.MethodPost, "/api/v1/owners/0xalice/favourites",
		`{"collection":"0xcat","index":7}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.NFTRef{Contract: "0xcat", Index: 7}, stub.lastRef)
}

func TestAddFavouriteRejectsMissingCollection(t *testing.T) {
	stub := &stubExecutor{favouriteResp: &dto.FavouriteResponse{}}
	router := newTestRouter(stub)

	w := doRequest(t, router, http.MethodPost, "/api/v1/owners/0xalice/favourites", `{"index":7}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestCreateCollectionRoute(t *testing.T) {
	stub := &stubExecutor{collectionResp: &dto.CollectionResponse{Name: "Cats"}}
	router := newTestRouter(stub)

	w := doRequest(t, router, http.MethodPost, "/api/v1/collections",
		`{"name":"Cats","category":"art","blockchain":"ethereum","creator":"0xbob","logo":"aGVsbG8="}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Cats", stub.lastParams.Name)
	assert.Equal(t, domain.BlockchainEthereum, stub.lastParams.Blockchain)
	assert.Equal(t, []byte("hello"), stub.lastParams.Logo)
}

func TestCreateCollectionRejectsBadBase64(t *testing.T) {
	stub := &stubExecutor{collectionResp: &dto.CollectionResponse{}}
	router := newTestRouter(stub)

	w := doRequest(t, router, http.MethodPost, "/api/v1/collections",
		`{"name":"Cats","category":"art","blockchain":"ethereum","creator":"0xbob","logo":"%%%"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestTopCollectionsRouteIsNotShadowed(t *testing.T) {
	stub := &stubExecutor{collectionResp: &dto.CollectionResponse{Contract: "0xcat"}}
	router := newTestRouter(stub)

	// The static /collections/top segment must not be captured by the
	// :contract parameter route.
	w := doRequest(t, router, http.MethodGet, "/api/v1/collections/top", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, stub.lastContract)

	w = doRequest(t, router, http.MethodGet, "/api/v1/collections/0xcat", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "0xcat", stub.lastContract)
}

func TestHealthCheck(t *testing.T) {
	router := newTestRouter(&stubExecutor{})

	w := doRequest(t, router, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}
