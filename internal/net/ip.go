package net

import (
	"log"
	"net"
)

// OutgoingIP finds the LAN address viewers should dial. No packet is sent:
// dialing UDP only asks the kernel which interface it would route through.
func OutgoingIP() string {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return localIPFallback()
	}
	defer conn.Close()

	if addr, ok := conn.LocalAddr().(*net.UDPAddr); ok {
		return addr.IP.String()
	}
	return localIPFallback()
}

// localIPFallback is used on networks without a default route.
func localIPFallback() string {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		log.Printf("[NET] Listing interfaces failed: %v", err)
		return "127.0.0.1"
	}
	for _, address := range addrs {
		if ipnet, ok := address.(*net.IPNet); ok && !ipnet.IP.IsLoopback() && ipnet.IP.To4() != nil {
			return ipnet.IP.String()
		}
	}
	log.Println("[NET] No suitable local IP found, share link may not work off this machine.")
	return "127.0.0.1"
}
