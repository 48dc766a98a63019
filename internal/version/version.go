// ABOUTME: Version information for whisper-go
// ABOUTME: Reported by the CLI, the service and mDNS advertisements
package version

const (
	Version      = "0.3.0"
	Product      = "Whisper"
	Manufacturer = "Vitruviano"
)

// UserAgent returns the product token sent to remote services
func UserAgent() string {
	return Product + "/" + Version
}
