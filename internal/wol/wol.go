package wol

import (
	"fmt"
	"net"
)

// Send fires a wake-on-LAN magic packet at the given MAC address. The
// packet goes to the broadcast address on UDP port 9; delivery is best
// effort and never acknowledged.
func Send(mac string) error {
	return SendTo(mac, "255.255.255.255:9")
}

// SendTo targets a specific broadcast address, mainly for tests and
// routed networks.
func SendTo(mac, addr string) error {
	hw, err := net.ParseMAC(mac)
	if err != nil {
		return fmt.Errorf("parse mac: %w", err)
	}
	if len(hw) != 6 {
		return fmt.Errorf("mac %q: want 6 bytes, got %d", mac, len(hw))
	}
	conn, err := net.Dial("udp", addr)
	if err != nil {
		return fmt.Errorf("dial wol target: %w", err)
	}
	defer func() { _ = conn.Close() }()
	if _, err := conn.Write(MagicPacket(hw)); err != nil {
		return fmt.Errorf("send magic packet: %w", err)
	}
	return nil
}

// MagicPacket builds the 102-byte wake-on-LAN payload: six 0xFF bytes
// followed by the MAC repeated sixteen times.
func MagicPacket(hw net.HardwareAddr) []byte {
	p := make([]byte, 0, 6+16*6)
	for i := 0; i < 6; i++ {
		p = append(p, 0xFF)
	}
	for i := 0; i < 16; i++ {
		p = append(p, hw...)
	}
	return p
}
