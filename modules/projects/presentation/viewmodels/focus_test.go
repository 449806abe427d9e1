package viewmodels_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/estatedesk/admin/modules/projects/presentation/viewmodels"
)

func TestFocusOrder_Next(t *testing.T) {
	t.Parallel()

	order := viewmodels.FocusOrder{"engineer_name", "engineer_email", "engineer_tax_id"}

	next, ok := order.Next("engineer_name")
	require.True(t, ok)
	require.Equal(t, "engineer_email", next)

	next, ok = order.Next("engineer_email")
	require.True(t, ok)
	require.Equal(t, "engineer_tax_id", next)

	_, ok = order.Next("engineer_tax_id")
	require.False(t, ok)

	_, ok = order.Next("unknown")
	require.False(t, ok)

	first, ok := order.First()
	require.True(t, ok)
	require.Equal(t, "engineer_name", first)

	_, ok = viewmodels.FocusOrder{}.First()
	require.False(t, ok)
}
