package rest

import (
	"net/http"
	"os"
)

// filesOnly serves regular files and reports directories as missing, so /uploads/ never lists.
type filesOnly struct {
	fs http.FileSystem
}

func (f filesOnly) Open(name string) (http.File, error) {
	file, err := f.fs.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, err
	}
	if info.IsDir() {
		_ = file.Close()
		return nil, os.ErrNotExist
	}
	return file, nil
}

// UploadsHandler serves stored uploads such as store logos from dir.
func UploadsHandler(dir string) http.Handler {
	return http.StripPrefix("/uploads/", http.FileServer(filesOnly{fs: http.Dir(dir)}))
}
