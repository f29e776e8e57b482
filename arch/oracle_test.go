package arch_test

import (
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/sarchlab/mapper2/arch"
	"github.com/sarchlab/mapper2/arch/mocks"
)

func TestFromOracle_DispatchesThroughMock(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mock := mocks.NewMockOracle(ctrl)
	comp, err := arch.BuildComponent("ALU0", "alu")
	require.NoError(t, err)

	mock.EXPECT().CanMap(arch.TaskID("t0"), comp).Return(true)
	mock.EXPECT().IsEquivalent(arch.TaskID("t0"), arch.TaskID("t1")).Return(false)
	mock.EXPECT().GetCapacity(arch.NewPath("T0", "Out")).Return(4)

	rs := arch.FromOracle(mock)

	require.True(t, rs.CanMap("t0", comp))
	require.False(t, rs.IsEquivalent("t0", "t1"))
	require.Equal(t, 4, rs.GetCapacity(arch.NewPath("T0", "Out")))

	// Every other dispatch point still resolves to a usable default via
	// Resolve() if the RuleSet literal had left it nil; FromOracle instead
	// wires all eleven through the mock, so calling one without an EXPECT
	// would fail the test — this exercises the specific set the test needs
	// and nothing more.
}
