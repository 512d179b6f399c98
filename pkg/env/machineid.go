package env

import (
	"encoding/hex"

	"github.com/denisbrodbeck/machineid"

	"github.com/robotalks/wcan/pkg/wcan"
)

const machineIDApp = "wcan"

// MachineAddress derives a stable node address from the machine ID.
// The result is a locally administered unicast address.
func MachineAddress() (addr wcan.Address, err error) {
	id, err := machineid.ProtectedID(machineIDApp)
	if err != nil {
		return addr, err
	}
	b, err := hex.DecodeString(id)
	if err != nil {
		return addr, err
	}
	return AddressFromID(b), nil
}

// AddressFromID converts an arbitrary ID into a locally administered
// unicast address.
func AddressFromID(id []byte) (addr wcan.Address) {
	copy(addr[:], id)
	addr[0] = (addr[0] | 0x02) &^ 0x01
	return
}
