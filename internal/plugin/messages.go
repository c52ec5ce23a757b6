// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package plugin

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ManuGH/favbot/internal/favorites"
	"github.com/ManuGH/favbot/internal/remote"
)

const (
	msgNoFavorites      = "当前没有关注列表"
	msgListHeader       = "当前关注列表："
	msgAddPrompt        = "请选择要添加的地点（回复序号）："
	msgDeletePrompt     = "请选择要删除的地点（回复序号）："
	msgDeleteEmpty      = "当前关注列表为空，没有可删除的项目！"
	msgAlreadyEmpty     = "关注列表已经是空的了！"
	msgCleared          = "✓ 已清空关注列表\n别忘了使用「保存」命令同步到服务器哦！"
	msgInvalidIndex     = "请输入有效的序号！"
	msgTimeout          = "操作超时！"
	msgSynced           = "✓ 配置已同步到服务器！"
	msgSaveReminderTail = "\n别忘了使用「保存」命令同步到服务器哦！"
)

func msgAdded(location string) string {
	return "✓ 已添加「" + location + "」到关注列表" + msgSaveReminderTail
}

func msgAlreadyFavorite(location string) string {
	return "「" + location + "」已经在关注列表中了！"
}

func msgDeleted(location string) string {
	return "✓ 已删除「" + location + "」" + msgSaveReminderTail
}

func msgOutOfRange(limit int) string {
	return fmt.Sprintf("序号超出范围，请输入1-%d之间的数字！", limit)
}

func msgFailed(err error) string {
	return "操作失败: " + err.Error()
}

// numbered renders header followed by a 1-based list, one entry per line.
func numbered(header string, items []string) string {
	var b strings.Builder
	b.WriteString(header)
	b.WriteByte('\n')
	for i, item := range items {
		b.WriteString(strconv.Itoa(i + 1))
		b.WriteString(". ")
		b.WriteString(item)
		b.WriteByte('\n')
	}
	return strings.TrimSpace(b.String())
}

// ListMessage renders the favorites the way the list command shows them.
func ListMessage(doc favorites.Document) string {
	if len(doc.Favorites) == 0 {
		return msgNoFavorites
	}
	return numbered(msgListHeader, doc.Favorites)
}

// SaveMessage is the user-facing result of a push.
func SaveMessage(err error) string {
	if err == nil {
		return msgSynced
	}
	var statusErr *remote.StatusError
	if errors.As(err, &statusErr) {
		return fmt.Sprintf("✗ 服务器返回错误: %d", statusErr.Code)
	}
	return "✗ 上传失败: " + err.Error()
}
