package bootstrap

import (
	"log/slog"

	"storefront/internal/config"
	"storefront/internal/images"
)

// BuildImages returns the upload store and the local directory served under
// /uploads. Files are served locally whatever the upload backend is, so
// pictures uploaded before a switch to Cloudinary keep working.
func BuildImages(profile *config.Config, log *slog.Logger) (images.Store, *images.Local, error) {
	local, err := images.NewLocal(profile.Uploads.Dir, profile.Uploads.PublicPrefix)
	if err != nil {
		return nil, nil, err
	}

	if profile.Uploads.Backend == "cloudinary" {
		cld, err := images.NewCloudinary(profile.Uploads.CloudinaryURL, profile.Uploads.CloudinaryFolder)
		if err != nil {
			return nil, nil, err
		}
		log.Info("uploads", "backend", "cloudinary", "folder", profile.Uploads.CloudinaryFolder)
		return cld, local, nil
	}

	log.Info("uploads", "backend", "local", "dir", profile.Uploads.Dir)
	return local, local, nil
}
