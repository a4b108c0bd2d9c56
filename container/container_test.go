package container

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listingHTML = `<html><body>
<div class="result" data-asin="B01" role="listitem">
  <h2 aria-label="Oak Table"><span>Oak</span><span>Table</span></h2>
  <script>var ignored = 1;</script>
  <ul><li>first</li><li>second</li></ul>
</div>
</body></html>`

func TestHTMLContainer(t *testing.T) {
	doc, err := ParseHTML(strings.NewReader(listingHTML))
	require.NoError(t, err)
	assert.Equal(t, KindHTML, doc.Kind())

	items := doc.FindAll("div.result")
	require.Len(t, items, 1)
	item := items[0]

	assert.Equal(t, "B01", item.Attr("", "data-asin"))
	assert.Equal(t, "Oak Table", item.Attr("h2", "aria-label"))
	assert.Equal(t, "Oak Table", item.Text("h2"))
	assert.Equal(t, "first", item.Text("li"))
	assert.NotContains(t, item.Text(""), "ignored")
	assert.Equal(t, "", item.Text("span.missing"))
	assert.Equal(t, "", item.Attr("h2", "missing"))

	lis := item.FindAll("li")
	require.Len(t, lis, 2)
	assert.Equal(t, "second", lis[1].Text(""))
	assert.Nil(t, item.FindAll(""))
}

const searchJSON = `{
  "data": {"search": {"products": [
    {"tcin": "123", "price": {"current_retail": 19.99},
     "item": {"product_description": {"title": "Lamp", "bullets": ["b", "a"]}}},
    {"tcin": "456", "flags": {"z": "last", "a": "first"}}
  ]}}
}`

func TestJSONContainer(t *testing.T) {
	assert.True(t, LooksLikeJSON([]byte("  \n"+searchJSON)))
	assert.True(t, LooksLikeJSON([]byte("\ufeff"+searchJSON)), "leading byte order mark")
	assert.False(t, LooksLikeJSON([]byte("<html></html>")))

	root, err := ParseJSON(strings.NewReader(searchJSON))
	require.NoError(t, err)
	assert.Equal(t, KindJSON, root.Kind())

	products := root.FindAll("data.search.products")
	require.Len(t, products, 2)

	first := products[0]
	assert.Equal(t, "123", first.Text("tcin"))
	assert.Equal(t, "19.99", first.Attr("price", "current_retail"))
	assert.Equal(t, "Lamp", first.Text("item.product_description.title"))
	assert.Equal(t, "a", first.Text("item.product_description.bullets.1"))
	assert.Equal(t, "b a", first.Text("item.product_description.bullets"))
	assert.Equal(t, "", first.Text("item.missing.path"))
	assert.Equal(t, "", first.Text("item.product_description.bullets.9"))

	assert.Equal(t, "first last", products[1].Text("flags"))
	assert.Equal(t, products[1].Text(""), products[1].Text(""))

	assert.Nil(t, root.FindAll("data.nothing"))
	single := root.FindAll("data.search")
	require.Len(t, single, 1)
}

func TestParseJSONInvalid(t *testing.T) {
	_, err := ParseJSON(strings.NewReader("{not json"))
	assert.Error(t, err)
}
