package invoice

import (
	"testing"

	"vendorhub/internal/testutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestView_Render(t *testing.T) {
	view, err := NewView(Branding{})
	require.NoError(t, err)

	t.Run("full invoice", func(t *testing.T) {
		html, err := view.RenderString(testutils.CreateTestInvoice(), ViewActions{
			PreviewURL:  "/api/subscriptions/42/invoice/pdf?inline=1",
			DownloadURL: "/api/subscriptions/42/invoice/pdf",
		})
		require.NoError(t, err)

		assert.Contains(t, html, "INV-2024-0042")
		assert.Contains(t, html, "VendorHub Marketplace")
		assert.Contains(t, html, "sales@raipurhandlooms.in")
		assert.Contains(t, html, `data-section="features"`)
		assert.Contains(t, html, "Priority support")
		assert.Contains(t, html, "GST (18%)")
		assert.Contains(t, html, `data-value="1180.00"`)
		assert.Contains(t, html, "1,180.00")
		assert.Contains(t, html, "15 March 2024")
		assert.Contains(t, html, `id="preview-pdf"`)
		assert.Contains(t, html, `id="download-pdf"`)
		assert.NotContains(t, html, `id="print-pdf"`)
	})

	t.Run("optional fields omitted", func(t *testing.T) {
		html, err := view.RenderString(testutils.CreateMinimalInvoice(), ViewActions{})
		require.NoError(t, err)

		assert.NotContains(t, html, `data-field="email"`)
		assert.NotContains(t, html, `data-field="phone"`)
		assert.NotContains(t, html, `data-section="features"`)
		assert.NotContains(t, html, "Subtotal")
		assert.NotContains(t, html, `class="actions"`)

		for _, section := range []string{"details", "vendor", "plan", "payment", "total", "footer"} {
			assert.Contains(t, html, `data-section="`+section+`"`)
		}
		assert.Contains(t, html, `data-value="1234.50"`)
	})
}

func TestBuildPlan_SharedPresenceRules(t *testing.T) {
	invoice := testutils.CreateMinimalInvoice()
	invoice.VendorCity = "Bilaspur"

	plan := BuildPlan(invoice, Branding{}, pdfFormatter{})

	vendor, ok := plan.Section(SectionVendor)
	require.True(t, ok)
	require.Len(t, vendor.Rows, 2)
	assert.Equal(t, "Bastar Crafts", vendor.Rows[0].Value)
	assert.True(t, vendor.Rows[0].Emphasis)
	assert.Equal(t, "Bilaspur", vendor.Rows[1].Value)

	_, ok = plan.Section(SectionFeatures)
	assert.False(t, ok)

	total, ok := plan.Section(SectionTotal)
	require.True(t, ok)
	require.Len(t, total.Rows, 1)
	assert.Equal(t, "INR 1234.50", total.Rows[0].Value)
	assert.Equal(t, "1234.50", total.Rows[0].Raw)

	sub, ok := plan.Section(SectionPlan)
	require.True(t, ok)
	assert.Contains(t, sub.Rows, Row{Label: "Duration", Value: "1 year"})
	assert.Contains(t, sub.Rows, Row{Label: "Auto Renew", Value: "No"})
}
