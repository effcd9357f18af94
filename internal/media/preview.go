package media

import (
	"encoding/base64"

	"github.com/sourcegraph/conc/iter"
)

// Preview 生成本地预览 (data URL)，上传完成前用于展示
func Preview(f File) string {
	ct := f.DetectedType()
	if ct == "" {
		ct = "application/octet-stream"
	}
	return "data:" + ct + ";base64," + base64.StdEncoding.EncodeToString(f.Data)
}

// PreviewAll 并发生成预览，结果顺序与输入一致
func PreviewAll(files []File) []string {
	return iter.Map(files, func(f *File) string {
		return Preview(*f)
	})
}
