package rpc

func (s *Server) requireWave() *Error {
	if s.waveStore == nil {
		return &Error{Code: CodeNotFound, Message: "wave index not enabled"}
	}
	return nil
}

type nameParam struct {
	Name string `json:"name"`
}

func (s *Server) handleWaveResolve(req *Request) (interface{}, *Error) {
	if err := s.requireWave(); err != nil {
		return nil, err
	}
	var p nameParam
	if err := parseParams(req, &p); err != nil {
		return nil, err
	}
	res, ok := s.waveStore.Resolve(p.Name)
	if !ok {
		return map[string]interface{}{"name": p.Name, "available": true}, nil
	}
	return map[string]interface{}{
		"name":      res.Name,
		"ref":       refOrEmpty(res.Ref),
		"zone":      res.Zone,
		"owner":     hexOrEmpty(res.Owner),
		"available": false,
	}, nil
}

func (s *Server) handleWaveCheckAvailable(req *Request) (interface{}, *Error) {
	if err := s.requireWave(); err != nil {
		return nil, err
	}
	var p nameParam
	if err := parseParams(req, &p); err != nil {
		return nil, err
	}
	return map[string]interface{}{"available": s.waveStore.CheckAvailable(p.Name)}, nil
}

type subdomainsParam struct {
	Parent string `json:"parent"`
	Limit  int    `json:"limit"`
}

func (s *Server) handleWaveGetSubdomains(req *Request) (interface{}, *Error) {
	if err := s.requireWave(); err != nil {
		return nil, err
	}
	var p subdomainsParam
	if err := parseParams(req, &p); err != nil {
		return nil, err
	}
	parentRef, derr := decodeRef(p.Parent)
	if derr != nil {
		return nil, derr
	}
	refs, e := s.waveStore.GetSubdomains(parentRef, p.Limit)
	if e != nil {
		return nil, internalError(e)
	}
	out := make([]string, 0, len(refs))
	for _, r := range refs {
		out = append(out, refOrEmpty(r))
	}
	return out, nil
}

type reverseLookupParam struct {
	Scripthash string `json:"scripthash"`
	Limit      int    `json:"limit"`
}

func (s *Server) handleWaveReverseLookup(req *Request) (interface{}, *Error) {
	if err := s.requireWave(); err != nil {
		return nil, err
	}
	var p reverseLookupParam
	if err := parseParams(req, &p); err != nil {
		return nil, err
	}
	scripthash, derr := decodeHex(p.Scripthash)
	if derr != nil {
		return nil, derr
	}
	refs, e := s.waveStore.ReverseLookup(scripthash, p.Limit)
	if e != nil {
		return nil, internalError(e)
	}
	out := make([]string, 0, len(refs))
	for _, r := range refs {
		out = append(out, refOrEmpty(r))
	}
	return out, nil
}

func (s *Server) handleWaveStats(req *Request) (interface{}, *Error) {
	if err := s.requireWave(); err != nil {
		return nil, err
	}
	st, e := s.waveStore.GetStats()
	if e != nil {
		return nil, internalError(e)
	}
	return st, nil
}
