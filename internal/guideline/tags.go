package guideline

import "sort"

// diffTags 计算标签集合的变化：toConnect = next - current，toDisconnect = current - next
// 结果升序、去重
func diffTags(current, next []uint) (toConnect, toDisconnect []uint) {
	cur := toSet(current)
	nxt := toSet(next)

	for id := range nxt {
		if _, ok := cur[id]; !ok {
			toConnect = append(toConnect, id)
		}
	}
	for id := range cur {
		if _, ok := nxt[id]; !ok {
			toDisconnect = append(toDisconnect, id)
		}
	}

	sortIDs(toConnect)
	sortIDs(toDisconnect)
	return toConnect, toDisconnect
}

// uniqueIDs 去重并排序
func uniqueIDs(ids []uint) []uint {
	set := toSet(ids)
	out := make([]uint, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sortIDs(out)
	return out
}

// missingIDs want 中不在 found 里的 ID
func missingIDs(want, found []uint) []uint {
	have := toSet(found)
	var missing []uint
	for _, id := range want {
		if _, ok := have[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}

func toSet(ids []uint) map[uint]struct{} {
	set := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func sortIDs(ids []uint) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}
