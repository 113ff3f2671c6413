package rpc

func (s *Server) requireDmint() *Error {
	if s.dmintMgr == nil {
		return &Error{Code: CodeNotFound, Message: "dmint contracts manager not enabled"}
	}
	return nil
}

type getContractsParam struct {
	Extended   bool `json:"extended"`
	ActiveOnly bool `json:"active_only"`
}

func (s *Server) handleDmintGetContracts(req *Request) (interface{}, *Error) {
	if err := s.requireDmint(); err != nil {
		return nil, err
	}
	var p getContractsParam
	_ = parseParams(req, &p)
	if p.Extended {
		return s.dmintMgr.GetContractsExtended(p.ActiveOnly), nil
	}
	return s.dmintMgr.GetContractsSimple(), nil
}

func (s *Server) handleDmintGetContract(req *Request) (interface{}, *Error) {
	if err := s.requireDmint(); err != nil {
		return nil, err
	}
	var p refParam
	if err := parseParams(req, &p); err != nil {
		return nil, err
	}
	c, ok := s.dmintMgr.GetContract(p.Ref)
	if !ok {
		return nil, notFound("contract")
	}
	return c, nil
}

type algorithmParam struct {
	Algorithm int `json:"algorithm"`
}

func (s *Server) handleDmintGetByAlgorithm(req *Request) (interface{}, *Error) {
	if err := s.requireDmint(); err != nil {
		return nil, err
	}
	var p algorithmParam
	if err := parseParams(req, &p); err != nil {
		return nil, err
	}
	return s.dmintMgr.GetContractsByAlgorithm(p.Algorithm), nil
}

type limitParam struct {
	Limit int `json:"limit"`
}

func (s *Server) handleDmintGetMostProfitable(req *Request) (interface{}, *Error) {
	if err := s.requireDmint(); err != nil {
		return nil, err
	}
	var p limitParam
	_ = parseParams(req, &p)
	return s.dmintMgr.GetMostProfitable(p.Limit), nil
}

func (s *Server) handleDmintGetStats(req *Request) (interface{}, *Error) {
	if err := s.requireDmint(); err != nil {
		return nil, err
	}
	return s.dmintMgr.GetStats(), nil
}

// handleDmintGetContractDAA surfaces the difficulty-adjustment facet of one
// contract: its ref, algorithm, current difficulty, reward, mined fraction
// and active flag. The token's daa_mode is not part of the result.
func (s *Server) handleDmintGetContractDAA(req *Request) (interface{}, *Error) {
	if err := s.requireDmint(); err != nil {
		return nil, err
	}
	var p refParam
	if err := parseParams(req, &p); err != nil {
		return nil, err
	}
	c, ok := s.dmintMgr.GetContract(p.Ref)
	if !ok {
		return nil, notFound("contract")
	}
	return map[string]interface{}{
		"ref":           c.Ref,
		"algorithm":     c.Algorithm,
		"difficulty":    c.Difficulty,
		"reward":        c.Reward,
		"percent_mined": c.PercentMined,
		"active":        c.Active,
	}, nil
}
