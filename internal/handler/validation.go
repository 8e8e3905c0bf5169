package handler

import (
	"encoding/base64"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

const maxTitleLength = 100

var (
	phonePattern = regexp.MustCompile(`^\d{10,15}$`)
	otpPattern   = regexp.MustCompile(`^\d{6}$`)
	imagePattern = regexp.MustCompile(`^data:image/[a-zA-Z0-9.+-]+;base64,`)
)

var (
	errInvalidPhone = errors.New("手机号必须是 10 到 15 位数字")
	errInvalidOTP   = errors.New("验证码必须是 6 位数字")
	errInvalidTitle = errors.New("标题不能为空且不超过 100 个字符")
	errInvalidImage = errors.New("图片必须是 base64 编码的 data URI")
)

// normalizeTitle 去掉首尾空白并检查长度。
func normalizeTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if n := utf8.RuneCountInString(title); n == 0 || n > maxTitleLength {
		return "", errInvalidTitle
	}
	return title, nil
}

// validateImage 检查图片 data URI 的格式与解码后的大小。空字符串表示没有图片。
func validateImage(image string, maxBytes int64) error {
	if image == "" {
		return nil
	}
	loc := imagePattern.FindStringIndex(image)
	if loc == nil {
		return errInvalidImage
	}
	payload := image[loc[1]:]
	// 先用编码长度粗略判断，避免解码超大的字符串
	if maxBytes > 0 && int64(base64.StdEncoding.DecodedLen(len(payload))) > maxBytes+2 {
		return fmt.Errorf("图片不能超过 %d MB", maxBytes/(1024*1024))
	}
	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return errInvalidImage
	}
	if maxBytes > 0 && int64(len(decoded)) > maxBytes {
		return fmt.Errorf("图片不能超过 %d MB", maxBytes/(1024*1024))
	}
	return nil
}
