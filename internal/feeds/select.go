package feeds

// SelectTop picks up to count items from the pool. Without diversify it is
// a plain prefix take. With diversify it round-robins across categories so
// no single category can crowd out the digest: each category keeps its
// items as an ordered queue, a cyclic cursor walks the categories in
// first-seen order (so with a newest-first pool, categories carrying the
// freshest items get any extra slots), popping one item per visit and
// skipping exhausted queues, until count items are taken or every queue
// is empty.
func SelectTop(pool []Item, count int, diversify bool) []Item {
	if count <= 0 {
		return nil
	}

	if !diversify {
		if len(pool) < count {
			count = len(pool)
		}
		return append([]Item(nil), pool[:count]...)
	}

	queues := make(map[string][]Item)
	var categories []string
	for _, item := range pool {
		if _, seen := queues[item.Category]; !seen {
			categories = append(categories, item.Category)
		}
		queues[item.Category] = append(queues[item.Category], item)
	}

	var selected []Item
	remaining := len(pool)
	for cursor := 0; len(selected) < count && remaining > 0; cursor++ {
		category := categories[cursor%len(categories)]
		queue := queues[category]
		if len(queue) == 0 {
			continue
		}
		selected = append(selected, queue[0])
		queues[category] = queue[1:]
		remaining--
	}

	return selected
}
