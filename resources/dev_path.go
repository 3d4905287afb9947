//go:build !release

package resources

const configDir = ".pvrscan"

func resourcePath() (string, error) {
	return configDir, nil
}
