package cec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cecinput/cecinput/cec"
)

func TestParsePhysicalAddress(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    cec.PhysicalAddress
		wantErr bool
	}{
		{name: "port only", in: "2", want: 0x2000},
		{name: "full address", in: "1.2.0.0", want: 0x1200},
		{name: "hex digits", in: "f.e.d.c", want: 0xFEDC},
		{name: "surrounding space", in: " 3 ", want: 0x3000},
		{name: "port zero", in: "0", wantErr: true},
		{name: "empty", in: "", wantErr: true},
		{name: "three parts", in: "1.2.3", wantErr: true},
		{name: "component too large", in: "10.0.0.0", wantErr: true},
		{name: "garbage", in: "x", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := cec.ParsePhysicalAddress(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPhysicalAddressString(t *testing.T) {
	assert.Equal(t, "1.0.0.0", cec.PhysicalAddress(0x1000).String())
	assert.Equal(t, "f.f.f.f", cec.PhysicalAddressInvalid.String())
}

func TestParseMessage(t *testing.T) {
	m, err := cec.ParseMessage([]byte{0x04, 0x44, 0x01})
	require.NoError(t, err)
	assert.Equal(t, cec.LogicalAddressTV, m.Initiator)
	assert.Equal(t, cec.LogicalAddressPlayback1, m.Destination)
	assert.True(t, m.HasOpcode)
	assert.Equal(t, cec.OpUserControlPressed, m.Opcode)
	assert.Equal(t, []byte{0x01}, m.Parameters)
	assert.Equal(t, []byte{0x04, 0x44, 0x01}, m.Frame())
	assert.Equal(t, "TV -> Playback 1: USER_CONTROL_PRESSED 01", m.String())
}

func TestParseMessage_Poll(t *testing.T) {
	m, err := cec.ParseMessage([]byte{0x44})
	require.NoError(t, err)
	assert.False(t, m.HasOpcode)
	assert.Equal(t, "Playback 1 -> Playback 1: POLL", m.String())
	assert.Equal(t, []byte{0x44}, m.Frame())
}

func TestParseMessage_Errors(t *testing.T) {
	_, err := cec.ParseMessage(nil)
	assert.ErrorIs(t, err, cec.ErrEmptyMessage)

	_, err = cec.ParseMessage(make([]byte, cec.MaxMessageSize+1))
	assert.Error(t, err)
}

func TestMessageAddressedTo(t *testing.T) {
	bc := cec.NewMessage(cec.LogicalAddressTV, cec.LogicalAddressBroadcast, cec.OpStandby)
	direct := cec.NewMessage(cec.LogicalAddressTV, cec.LogicalAddressPlayback1, cec.OpStandby)
	other := cec.NewMessage(cec.LogicalAddressTV, cec.LogicalAddressPlayback2, cec.OpStandby)

	assert.True(t, bc.AddressedTo(cec.LogicalAddressPlayback1))
	assert.True(t, direct.AddressedTo(cec.LogicalAddressPlayback1))
	assert.False(t, other.AddressedTo(cec.LogicalAddressPlayback1))
}

func TestUserControlCode(t *testing.T) {
	assert.True(t, cec.KeySelect.Valid())
	assert.True(t, cec.KeyAnChannelsList.Valid())
	assert.False(t, cec.KeyUnknown.Valid())
	assert.Equal(t, "select", cec.KeySelect.String())
	assert.Equal(t, "unknown (0x0e)", cec.UserControlCode(0x0E).String())
	assert.Equal(t, "0x7f", cec.Opcode(0x7F).String())
}
