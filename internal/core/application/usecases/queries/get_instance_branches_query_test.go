package queries_test

import (
	"testing"

	"jewelflow/internal/core/application/usecases/queries"
	"jewelflow/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGetInstanceBranchesQuery_Valid(t *testing.T) {
	instanceID := kernel.NewUUID()

	query, err := queries.NewGetInstanceBranchesQuery(instanceID)

	require.NoError(t, err)
	require.NoError(t, query.Validate())
	assert.Equal(t, instanceID, query.InstanceID())
}

func TestNewGetInstanceBranchesQuery_ZeroInstanceID(t *testing.T) {
	_, err := queries.NewGetInstanceBranchesQuery(kernel.UUID{})

	require.Error(t, err)
}

func TestGetInstanceBranchesQuery_NotConstructedViaConstructor(t *testing.T) {
	query := queries.GetInstanceBranchesQuery{}
	err := query.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, queries.ErrGetInstanceBranchesQueryIsNotConstructed)
}
