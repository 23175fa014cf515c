//go:build pact
// +build pact

package consumer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	pactconsumer "github.com/pact-foundation/pact-go/v2/consumer"
	"github.com/pact-foundation/pact-go/v2/matchers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pacttest "github.com/apexretail/catalog-server/test/pact"
)

var jsonContentType = matchers.Term("application/json; charset=utf-8", `application/json(;\s?charset=[\w\-]+)?`)

// storefrontClient is a minimal typed client for the catalog HTTP surface,
// shaped the way a real storefront consumer would call it.
type storefrontClient struct {
	baseURL string
	http    *http.Client
}

func newStorefrontClient(host string, port int) *storefrontClient {
	return &storefrontClient{
		baseURL: fmt.Sprintf("http://%s:%d", host, port),
		http:    &http.Client{},
	}
}

type messageReply struct {
	Message string `json:"message"`
}

func (c *storefrontClient) createStore(name, address string) (messageReply, error) {
	body, _ := json.Marshal(map[string]any{"name": name, "address": address})
	resp, err := c.http.Post(c.baseURL+"/store", "application/json", bytes.NewReader(body))
	if err != nil {
		return messageReply{}, err
	}
	defer resp.Body.Close()
	var out messageReply
	return out, json.NewDecoder(resp.Body).Decode(&out)
}

func (c *storefrontClient) validateStore(storeID int64) (bool, error) {
	resp, err := c.http.Get(fmt.Sprintf("%s/store/validate/%d", c.baseURL, storeID))
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()
	var out bool
	return out, json.NewDecoder(resp.Body).Decode(&out)
}

type productListing struct {
	Products []struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
		SKU  string `json:"sku"`
	} `json:"products"`
}

func (c *storefrontClient) listProducts(storeID int64) (productListing, error) {
	resp, err := c.http.Get(fmt.Sprintf("%s/inventory/%d", c.baseURL, storeID))
	if err != nil {
		return productListing{}, err
	}
	defer resp.Body.Close()
	var out productListing
	return out, json.NewDecoder(resp.Body).Decode(&out)
}

func (c *storefrontClient) placeOrder(payload map[string]any) (messageReply, error) {
	body, _ := json.Marshal(payload)
	resp, err := c.http.Post(c.baseURL+"/store/placeOrder", "application/json", bytes.NewReader(body))
	if err != nil {
		return messageReply{}, err
	}
	defer resp.Body.Close()
	var out messageReply
	return out, json.NewDecoder(resp.Body).Decode(&out)
}

func newPact(t *testing.T) *pactconsumer.V2HTTPMockProvider {
	t.Helper()
	pact, err := pactconsumer.NewV2Pact(pactconsumer.MockHTTPProviderConfig{
		Consumer: pacttest.ConsumerName,
		Provider: pacttest.ProviderName,
		PactDir:  pacttest.PactDir(t),
		LogDir:   pacttest.LogDir(t),
	})
	require.NoError(t, err)
	return pact
}

func TestConsumer_CreateStore(t *testing.T) {
	pact := newPact(t)

	err := pact.
		AddInteraction().
		Given(pacttest.StateCatalogBaseline).
		UponReceiving("a request to create a store").
		WithRequest(http.MethodPost, "/store", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"name":    matchers.Like("Downtown"),
				"address": matchers.Like("12 Main St"),
			})
		}).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"message": matchers.Term(
					"Store created successfully with ID: 1",
					`Store created successfully with ID: \d+`,
				),
			})
		}).
		ExecuteTest(t, func(config pactconsumer.MockServerConfig) error {
			client := newStorefrontClient(config.Host, config.Port)
			reply, err := client.createStore("Downtown", "12 Main St")
			if err != nil {
				return err
			}
			assert.Contains(t, reply.Message, "Store created successfully")
			return nil
		})
	require.NoError(t, err)
}

func TestConsumer_ValidateStore(t *testing.T) {
	pact := newPact(t)

	err := pact.
		AddInteraction().
		Given(pacttest.StateStoreExists).
		UponReceiving("a request to validate an existing store").
		WithRequest(http.MethodGet, fmt.Sprintf("/store/validate/%d", pacttest.ExistingStoreID)).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Like(true))
		}).
		ExecuteTest(t, func(config pactconsumer.MockServerConfig) error {
			client := newStorefrontClient(config.Host, config.Port)
			ok, err := client.validateStore(pacttest.ExistingStoreID)
			if err != nil {
				return err
			}
			assert.True(t, ok)
			return nil
		})
	require.NoError(t, err)
}

func TestConsumer_ListStoreProducts(t *testing.T) {
	pact := newPact(t)

	err := pact.
		AddInteraction().
		Given(pacttest.StateInventorySeeded).
		UponReceiving("a request for the products stocked by a store").
		WithRequest(http.MethodGet, fmt.Sprintf("/inventory/%d", pacttest.ExistingStoreID)).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"products": matchers.ArrayMinLike(matchers.Map{
					"id":       matchers.Like(pacttest.ExistingProductID),
					"name":     matchers.Like(pacttest.ExampleProductName),
					"category": matchers.Like("Coffee"),
					"price":    matchers.Like(12.5),
					"sku":      matchers.Like(pacttest.ExampleProductSKU),
				}, 1),
			})
		}).
		ExecuteTest(t, func(config pactconsumer.MockServerConfig) error {
			client := newStorefrontClient(config.Host, config.Port)
			listing, err := client.listProducts(pacttest.ExistingStoreID)
			if err != nil {
				return err
			}
			require.NotEmpty(t, listing.Products)
			assert.Equal(t, pacttest.ExampleProductSKU, listing.Products[0].SKU)
			return nil
		})
	require.NoError(t, err)
}

func TestConsumer_PlaceOrder(t *testing.T) {
	pact := newPact(t)

	err := pact.
		AddInteraction().
		Given(pacttest.StateInventorySeeded).
		UponReceiving("a request to place an order against seeded stock").
		WithRequest(http.MethodPost, "/store/placeOrder", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"storeId": matchers.Like(pacttest.ExistingStoreID),
				"customer": matchers.Map{
					"name":  matchers.Like("Pact Customer"),
					"email": matchers.Like("pact.customer@example.com"),
					"phone": matchers.Like("+1234567890"),
				},
				"items": matchers.ArrayMinLike(matchers.Map{
					"productId": matchers.Like(pacttest.ExistingProductID),
					"quantity":  matchers.Like(2),
				}, 1),
			})
		}).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"message": matchers.Like("Order placed successfully"),
			})
		}).
		ExecuteTest(t, func(config pactconsumer.MockServerConfig) error {
			client := newStorefrontClient(config.Host, config.Port)
			reply, err := client.placeOrder(pacttest.ExamplePlaceOrderPayload())
			if err != nil {
				return err
			}
			assert.Equal(t, "Order placed successfully", reply.Message)
			return nil
		})
	require.NoError(t, err)
}
