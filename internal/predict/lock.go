package predict

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"scribe/internal/services"
)

// acquireDeviceLock takes exclusive ownership of the accelerator. It fails
// fast instead of queueing behind another prediction.
func acquireDeviceLock(path string) (*flock.Flock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "lock", "create lock dir", "Failed to create lock directory", err)
	}
	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "lock", "acquire", "Failed to acquire device lock", err)
	}
	if !ok {
		return nil, services.Wrap(services.ErrConfiguration, "lock", "acquire", fmt.Sprintf("device is busy with another prediction (lock %s)", path), nil)
	}
	return lock, nil
}
