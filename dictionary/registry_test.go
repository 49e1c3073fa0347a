package dictionary_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/dictquery/dictionary"
)

func sampleTables() []dictionary.Table {
	return []dictionary.Table{
		{
			Name:      "C_BPartner",
			KeyColumn: "C_BPartner_ID",
			Columns: []dictionary.Column{
				{Name: "C_BPartner_ID", Type: dictionary.TypeID},
				{Name: "Name", Type: dictionary.TypeString},
			},
		},
		{
			Name:      "AD_User",
			KeyColumn: "AD_User_ID",
			Columns: []dictionary.Column{
				{Name: "AD_User_ID", Type: dictionary.TypeID},
				{Name: "AD_Client_ID", Type: dictionary.TypeTableDir},
				{Name: "IsActive", Type: dictionary.TypeYesNo},
				{Name: "C_BPartner_ID", Type: dictionary.TypeSearch},
				{Name: "Salesrep_ID", Type: dictionary.TypeTable, References: "AD_User"},
				{Name: "Bill_BPartner_ID", Type: dictionary.TypeTable, References: "C_BPartner"},
				{Name: "Greeting", Type: dictionary.TypeString, VirtualSQL: "(SELECT 'hello')"},
			},
		},
	}
}

func TestRegistry_LookupTable(t *testing.T) {
	reg := dictionary.NewRegistry()
	require.NoError(t, reg.Register(sampleTables()...))

	tbl, err := reg.LookupTable("ad_user")
	require.NoError(t, err)
	assert.Equal(t, "AD_User", tbl.Name)
	assert.Equal(t, "AD_User_ID", tbl.KeyColumn)

	_, err = reg.LookupTable("NO_TABLE_DEFINED")
	assert.ErrorIs(t, err, dictionary.ErrTableNotFound)

	assert.Equal(t, []string{"AD_User", "C_BPartner"}, reg.Tables())
}

func TestRegistry_RejectsInvalidTables(t *testing.T) {
	tests := []struct {
		name  string
		table dictionary.Table
	}{
		{name: "empty name", table: dictionary.Table{Columns: []dictionary.Column{{Name: "A"}}}},
		{name: "no columns", table: dictionary.Table{Name: "T"}},
		{name: "missing key", table: dictionary.Table{Name: "T", KeyColumn: "T_ID", Columns: []dictionary.Column{{Name: "A"}}}},
		{name: "duplicate column", table: dictionary.Table{Name: "T", Columns: []dictionary.Column{{Name: "A"}, {Name: "a"}}}},
		{name: "virtual key", table: dictionary.Table{Name: "T", KeyColumn: "T_ID", Columns: []dictionary.Column{{Name: "T_ID", VirtualSQL: "1"}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := dictionary.NewRegistry()
			err := reg.Register(tt.table)
			assert.ErrorIs(t, err, dictionary.ErrInvalidTable)
			assert.Empty(t, reg.Tables())
		})
	}
}

func TestRegistry_ReplaceIsAllOrNothing(t *testing.T) {
	reg := dictionary.NewRegistry()
	require.NoError(t, reg.Register(sampleTables()...))

	err := reg.Replace([]dictionary.Table{{Name: "Only", Columns: []dictionary.Column{{Name: "X"}}}, {Name: ""}})
	require.Error(t, err)
	assert.Len(t, reg.Tables(), 2)

	require.NoError(t, reg.Replace([]dictionary.Table{{Name: "Only", Columns: []dictionary.Column{{Name: "X"}}}}))
	assert.Equal(t, []string{"Only"}, reg.Tables())
}

func TestTable_Columns(t *testing.T) {
	reg := dictionary.NewRegistry()
	require.NoError(t, reg.Register(sampleTables()...))
	user, err := reg.LookupTable("AD_User")
	require.NoError(t, err)

	col, ok := user.Column("c_bpartner_id")
	require.True(t, ok)
	assert.Equal(t, "C_BPartner_ID", col.Name)

	assert.Equal(t, "IsActive", user.ActiveColumn())
	assert.Equal(t, "AD_Client_ID", user.ClientColumn())
	assert.Len(t, user.PhysicalColumns(), 6)
	require.Len(t, user.VirtualColumns(), 1)
	assert.Equal(t, "Greeting", user.VirtualColumns()[0].Name)
	assert.Equal(t, "AD_User.Name", user.Qualify("Name"))

	partner, err := reg.LookupTable("C_BPartner")
	require.NoError(t, err)
	assert.Empty(t, partner.ActiveColumn())
	assert.Empty(t, partner.ClientColumn())
}

func TestTable_ForeignKeysTo(t *testing.T) {
	reg := dictionary.NewRegistry()
	require.NoError(t, reg.Register(sampleTables()...))
	user, _ := reg.LookupTable("AD_User")
	partner, _ := reg.LookupTable("C_BPartner")

	fks := user.ForeignKeysTo(partner)
	require.Len(t, fks, 2)
	assert.Equal(t, "C_BPartner_ID", fks[0].Name)
	assert.Equal(t, "Bill_BPartner_ID", fks[1].Name)

	self := user.ForeignKeysTo(user)
	require.Len(t, self, 1, "the key column never references its own table")
	assert.Equal(t, "Salesrep_ID", self[0].Name)

	assert.Empty(t, partner.ForeignKeysTo(user))
}

func TestColumn_ReferencedTable(t *testing.T) {
	assert.Equal(t, "C_BPartner", dictionary.Column{Name: "C_BPartner_ID", Type: dictionary.TypeTableDir}.ReferencedTable())
	assert.Equal(t, "AD_User", dictionary.Column{Name: "SalesRep_ID", Type: dictionary.TypeTable, References: "AD_User"}.ReferencedTable())
	assert.Empty(t, dictionary.Column{Name: "C_BPartner_ID", Type: dictionary.TypeInteger}.ReferencedTable())
	assert.Empty(t, dictionary.Column{Name: "X_ID", Type: dictionary.TypeSearch, VirtualSQL: "(1)"}.ReferencedTable())
}
