package service

import "edusync_backend/internal/model"

// FilterResultsByScope userOnly 时只保留请求方自己的成绩；请求方未知时返回空集合，
// 避免把他人成绩展示出去。
func FilterResultsByScope(results []model.Result, caller *CallerContext, userOnly bool) []model.Result {
	if !userOnly {
		return results
	}
	if caller == nil || caller.UserID == "" {
		return []model.Result{}
	}

	own := make([]model.Result, 0, len(results))
	for _, r := range results {
		if r.UserID == caller.UserID {
			own = append(own, r)
		}
	}
	return own
}
